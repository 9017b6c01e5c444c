package main

import (
	"errors"
	"net/http"

	"whereto/internal/reporting"
	"whereto/internal/store"
)

type FileReportPayload struct {
	TargetType string `json:"target_type" validate:"required,oneof=place comment"`
	TargetID   int64  `json:"target_id" validate:"required,min=1"`
	Reason     string `json:"reason" validate:"required"`
	Details    string `json:"details" validate:"max=2000"`
}

func (app *application) fileReportHandler(w http.ResponseWriter, r *http.Request) {
	var payload FileReportPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	open, err := app.reporting.FileReport(r.Context(), user.ID, reporting.Input{
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Reason:     payload.Reason,
		Details:    payload.Details,
	})
	if err != nil {
		switch {
		case errors.Is(err, reporting.ErrInvalidTarget), errors.Is(err, reporting.ErrInvalidReason):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, reporting.ErrAlreadyReported):
			app.conflictResponse(w, r, err)
		case errors.Is(err, reporting.ErrRateLimited):
			app.rateLimitExceededResponse(w, r)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]int{"open_reports": open}); err != nil {
		app.internalServerError(w, r, err)
	}
}
