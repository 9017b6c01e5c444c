package main

import (
	"errors"
	"net/http"

	"whereto/internal/store"
	"whereto/internal/voting"
)

type CastVotePayload struct {
	Value int `json:"value" validate:"required,oneof=1 -1"`
}

func (app *application) castVoteHandler(w http.ResponseWriter, r *http.Request) {
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

	var payload CastVotePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	result, err := app.voting.CastVote(r.Context(), user.ID, place.ID, payload.Value)
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrInvalidVote):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, voting.ErrSelfVote):
			app.forbiddenResponse(w, r)
		case errors.Is(err, voting.ErrAlreadyVoted):
			app.conflictResponse(w, r, err)
		case errors.Is(err, voting.ErrRateLimited):
			app.rateLimitExceededResponse(w, r)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
