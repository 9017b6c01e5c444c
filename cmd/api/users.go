package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"whereto/internal/ranking"
	"whereto/internal/store"
)

const ownPlacesLimit = 20

// Profile is the authenticated user's own view: identity plus the
// contribution numbers karma is derived from.
type Profile struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Karma        int       `json:"karma"`
	PlacesCount  int       `json:"places_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	ctx := r.Context()

	placesCount, err := app.store.Places.CountByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	upvotesReceived, err := app.store.Places.CountUpvotesReceived(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	commentCount, err := app.store.Comments.CountByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	profile := Profile{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Karma:        ranking.Karma(placesCount, upvotesReceived),
		PlacesCount:  placesCount,
		CommentCount: commentCount,
		CreatedAt:    user.CreatedAt,
	}

	if err := app.jsonResponse(w, http.StatusOK, profile); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PublicProfile is what anyone can see about a contributor.
type PublicProfile struct {
	Username     string             `json:"username"`
	Karma        int                `json:"karma"`
	PlacesCount  int                `json:"places_count"`
	CommentCount int                `json:"comment_count"`
	CreatedAt    time.Time          `json:"created_at"`
	Places       []store.Place      `json:"places"`
	Saved        []store.SavedPlace `json:"saved"`
}

func (app *application) getPublicProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := app.store.Users.GetByUsername(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	ctx := r.Context()

	placesCount, err := app.store.Places.CountByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	upvotesReceived, err := app.store.Places.CountUpvotesReceived(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	commentCount, err := app.store.Comments.CountByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	places, err := app.store.Places.ListByUser(ctx, user.ID, ownPlacesLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	saved, err := app.store.Saved.ListByUser(ctx, user.ID, savedPlacesLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	profile := PublicProfile{
		Username:     user.Username,
		Karma:        ranking.Karma(placesCount, upvotesReceived),
		PlacesCount:  placesCount,
		CommentCount: commentCount,
		CreatedAt:    user.CreatedAt,
		Places:       places,
		Saved:        saved,
	}

	if err := app.jsonResponse(w, http.StatusOK, profile); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listOwnPlacesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	places, err := app.store.Places.ListByUser(r.Context(), user.ID, ownPlacesLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, places); err != nil {
		app.internalServerError(w, r, err)
	}
}
