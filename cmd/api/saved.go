package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"whereto/internal/ratelimiter"
	"whereto/internal/store"
)

const savedPlacesLimit = 20

var saveBudget = ratelimiter.Budget{Limit: 30, Window: time.Minute}

// toggleSavedPlaceHandler flips the saved state for (user, place): saving when
// unsaved, unsaving when saved. Returns the resulting state.
func (app *application) toggleSavedPlaceHandler(w http.ResponseWriter, r *http.Request) {
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

	user := getUserFromContext(r)

	if !app.allow(r, fmt.Sprintf("save:%d", user.ID), saveBudget) {
		app.rateLimitExceededResponse(w, r)
		return
	}

	ctx := r.Context()

	exists, err := app.store.Saved.Exists(ctx, user.ID, place.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if exists {
		if err := app.store.Saved.Remove(ctx, user.ID, place.ID); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	} else {
		if err := app.store.Saved.Add(ctx, user.ID, place.ID); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"saved": !exists})
}

func (app *application) listSavedPlacesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	saved, err := app.store.Saved.ListByUser(r.Context(), user.ID, savedPlacesLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, saved)
}
