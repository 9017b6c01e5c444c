package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"whereto/internal/auth"
	"whereto/internal/ratelimiter"
	"whereto/internal/store"
	"whereto/internal/store/storetest"
)

func newTestApp(t *testing.T) (*application, *storetest.Store) {
	t.Helper()

	ts := storetest.New()
	app := &application{
		config: config{env: "test"},
		logger: zap.NewNop().Sugar(),
		store: store.Storage{
			Users:    ts.Users,
			Places:   ts.Places,
			Comments: ts.Comments,
			Votes:    ts.Votes,
			Reports:  ts.Reports,
			Actions:  ts.Actions,
			Visits:   ts.Visits,
			Saved:    ts.Saved,
			Feeds:    ts.Feeds,
		},
		authenticator: auth.NewJWTAuthenticator("secret", "refresh-secret", "whereto", "whereto", time.Hour, time.Hour),
		rateLimiter:   ratelimiter.Disabled{},
	}
	return app, ts
}

func bearerToken(t *testing.T, app *application, userID int64, role string) string {
	t.Helper()

	accessToken, _, err := app.authenticator.GenerateTokens(userID, role)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return "Bearer " + accessToken
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
}

// The photo upload route must not depend on any existing place: uploads
// produce the URLs a first place is created with.
func TestUploadRouteIsPlaceIndependent(t *testing.T) {
	app, _ := newTestApp(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodPost, "/v1/upload", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// The route resolves with zero places in storage; only authentication
	// stands in the way.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated upload status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPublicProfileIncludesSavedPlaces(t *testing.T) {
	app, ts := newTestApp(t)

	user := &store.User{Username: "asha"}
	if err := ts.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	place := ts.SeedPlace(store.Place{Name: "Mirror Lake", City: "Pokhara", CreatedBy: user.ID})
	if err := ts.Saved.Add(context.Background(), user.ID, place.ID); err != nil {
		t.Fatalf("saving place: %v", err)
	}

	mux := app.mount()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/asha", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var profile PublicProfile
	decodeData(t, rec.Body.Bytes(), &profile)

	if profile.Username != "asha" {
		t.Errorf("username = %q, want asha", profile.Username)
	}
	if len(profile.Places) != 1 {
		t.Errorf("places = %d, want 1", len(profile.Places))
	}
	if len(profile.Saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(profile.Saved))
	}
	if profile.Saved[0].Name != "Mirror Lake" {
		t.Errorf("saved[0].Name = %q, want Mirror Lake", profile.Saved[0].Name)
	}
}

func TestSavePlaceToggles(t *testing.T) {
	app, ts := newTestApp(t)

	user := &store.User{Username: "asha"}
	if err := ts.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	place := ts.SeedPlace(store.Place{Name: "Mirror Lake", City: "Pokhara"})

	mux := app.mount()
	token := bearerToken(t, app, user.ID, user.Role)

	toggle := func() bool {
		req := httptest.NewRequest(http.MethodPost, "/v1/places/"+strconv.FormatInt(place.ID, 10)+"/save", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var state struct {
			Saved bool `json:"saved"`
		}
		decodeData(t, rec.Body.Bytes(), &state)
		return state.Saved
	}

	if saved := toggle(); !saved {
		t.Fatal("first toggle returned saved=false, want true")
	}
	exists, _ := ts.Saved.Exists(context.Background(), user.ID, place.ID)
	if !exists {
		t.Fatal("place not saved after first toggle")
	}

	if saved := toggle(); saved {
		t.Fatal("second toggle returned saved=true, want false")
	}
	exists, _ = ts.Saved.Exists(context.Background(), user.ID, place.ID)
	if exists {
		t.Fatal("place still saved after second toggle")
	}
}
