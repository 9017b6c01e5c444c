package main

import (
	"errors"
	"net/http"

	"whereto/internal/store"
	"whereto/internal/visits"
)

func (app *application) confirmVisitHandler(w http.ResponseWriter, r *http.Request) {
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

	count, err := app.visits.Confirm(r.Context(), user.ID, place.ID)
	if err != nil {
		switch {
		case errors.Is(err, visits.ErrAlreadyConfirmed):
			app.conflictResponse(w, r, err)
		case errors.Is(err, visits.ErrRateLimited):
			app.rateLimitExceededResponse(w, r)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]int{"visit_confirmations": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}
