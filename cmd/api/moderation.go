package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"whereto/internal/moderation"
	"whereto/internal/store"
)

const moderationHistoryLimit = 50

func (app *application) moderationQueueHandler(w http.ResponseWriter, r *http.Request) {
	queue, err := app.moderation.Queue(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, queue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type ModerationActionPayload struct {
	TargetType string `json:"target_type" validate:"required,oneof=place comment"`
	TargetID   int64  `json:"target_id" validate:"required,min=1"`
	Action     string `json:"action" validate:"required,oneof=remove restore dismiss"`
	Reason     string `json:"reason" validate:"max=500"`
	ReportID   *int64 `json:"report_id,omitempty"`
}

func (app *application) applyModerationActionHandler(w http.ResponseWriter, r *http.Request) {
	var payload ModerationActionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	err := app.moderation.ApplyAction(r.Context(), moderation.Human(user.ID, user.Username), moderation.ActionInput{
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Action:     payload.Action,
		Reason:     payload.Reason,
		ReportID:   payload.ReportID,
	})
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrInvalidTarget), errors.Is(err, moderation.ErrInvalidAction):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "action applied"})
}

func (app *application) moderationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	targetType := chi.URLParam(r, "targetType")
	if !moderation.IsValidTargetType(targetType) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid target type %q", targetType))
		return
	}

	targetIDStr := chi.URLParam(r, "targetID")
	targetID, err := strconv.ParseInt(targetIDStr, 10, 64)
	if err != nil || targetID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid targetID"))
		return
	}

	actions, err := app.store.Actions.ListByTarget(r.Context(), targetType, targetID, moderationHistoryLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, actions); err != nil {
		app.internalServerError(w, r, err)
	}
}
