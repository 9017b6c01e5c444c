package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"whereto/internal/ranking"
	"whereto/internal/ratelimiter"
	"whereto/internal/sanitize"
	"whereto/internal/store"
)

const placesPageSize = 20

var addPlaceBudget = ratelimiter.Budget{Limit: 5, Window: 5 * time.Minute}

type CreatePlacePayload struct {
	Name        string   `json:"name" validate:"required,min=2,max=120"`
	City        string   `json:"city" validate:"required,min=2,max=80"`
	Lat         float64  `json:"lat" validate:"min=-90,max=90"`
	Lng         float64  `json:"lng" validate:"min=-180,max=180"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=40"`
	BestTime    string   `json:"best_time" validate:"max=120"`
	ImageURLs   []string `json:"image_urls" validate:"required,min=1,max=5,dive,url"`
}

func (app *application) createPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !store.IsValidCategory(payload.Category) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown category %q", payload.Category))
		return
	}

	user := getUserFromContext(r)
	if user == nil {
		app.badRequestResponse(w, r, fmt.Errorf("unauthenticated request"))
		return
	}

	if !app.allow(r, fmt.Sprintf("place:add:%d", user.ID), addPlaceBudget) {
		app.rateLimitExceededResponse(w, r)
		return
	}

	tags := make([]string, 0, len(payload.Tags))
	for _, tag := range payload.Tags {
		if clean := sanitize.Text(tag); clean != "" {
			tags = append(tags, clean)
		}
	}

	status := store.PlaceStatusPending
	if app.config.autoApprovePlaces {
		status = store.PlaceStatusApproved
	}

	place := &store.Place{
		Name:        sanitize.Text(payload.Name),
		City:        sanitize.Text(payload.City),
		Lat:         payload.Lat,
		Lng:         payload.Lng,
		Description: sanitize.Text(payload.Description),
		Category:    payload.Category,
		Tags:        tags,
		BestTime:    sanitize.Text(payload.BestTime),
		ImageURLs:   payload.ImageURLs,
		Status:      status,
		CreatedBy:   user.ID,
	}

	if err := app.store.Places.Create(r.Context(), place); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

// PlaceDetail decorates a place with the display-time rating block.
type PlaceDetail struct {
	*store.Place
	ScoreLabel      string `json:"score_label"`
	ScorePercentage int    `json:"score_percentage"`
	HiddenGem       bool   `json:"hidden_gem"`
	Controversial   bool   `json:"controversial"`
}

func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
	place, err := app.placeFromSlug(r)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	detail := PlaceDetail{
		Place:           place,
		ScoreLabel:      ranking.ScoreLabel(place.Score),
		ScorePercentage: ranking.ScorePercentage(place.Score),
		HiddenGem:       ranking.IsHiddenGem(place.Score, place.Upvotes, place.Downvotes),
		Controversial:   ranking.IsControversial(place.Upvotes, place.Downvotes),
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		app.badRequestResponse(w, r, fmt.Errorf("city is required"))
		return
	}

	category := r.URL.Query().Get("category")
	if category != "" && !store.IsValidCategory(category) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown category %q", category))
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := store.PlaceFilter{
		City:     city,
		Category: category,
		Page:     page,
		Limit:    placesPageSize,
	}

	places, total, err := app.store.Places.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"places": places,
		"total":  total,
		"page":   page,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// placeFromSlug resolves the {placeSlug} URL parameter. Numeric IDs are
// accepted too so internal tooling can address places directly.
func (app *application) placeFromSlug(r *http.Request) (*store.Place, error) {
	slug := chi.URLParam(r, "placeSlug")

	placeID, err := strconv.ParseInt(slug, 10, 64)
	if err != nil {
		placeID, err = store.DecodeSlug(slug)
		if err != nil {
			return nil, fmt.Errorf("invalid place identifier %q", slug)
		}
	}

	return app.store.Places.GetByID(r.Context(), placeID)
}

// allow checks a per-user action budget, failing open when the limiter itself
// errors.
func (app *application) allow(r *http.Request, key string, budget ratelimiter.Budget) bool {
	allowed, err := app.rateLimiter.Allow(r.Context(), key, budget.Limit, budget.Window)
	if err != nil {
		app.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true
	}
	return allowed
}
