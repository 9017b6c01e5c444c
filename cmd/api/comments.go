package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"whereto/internal/ratelimiter"
	"whereto/internal/sanitize"
	"whereto/internal/store"
)

const commentsPageSize = 20

var (
	commentBudget       = ratelimiter.Budget{Limit: 10, Window: time.Minute}
	commentUpvoteBudget = ratelimiter.Budget{Limit: 30, Window: time.Minute}
)

type CreateCommentPayload struct {
	Text string `json:"text" validate:"required,min=15,max=1000"`
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
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
	if place.Status != store.PlaceStatusApproved {
		app.badRequestResponse(w, r, fmt.Errorf("place is not open for comments"))
		return
	}

	var payload CreateCommentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	text := sanitize.Text(payload.Text)
	if len([]rune(text)) < 15 {
		app.badRequestResponse(w, r, fmt.Errorf("comment too short after cleanup"))
		return
	}

	user := getUserFromContext(r)

	if !app.allow(r, fmt.Sprintf("comment:%d", user.ID), commentBudget) {
		app.rateLimitExceededResponse(w, r)
		return
	}

	comment := &store.Comment{
		PlaceID:  place.ID,
		UserID:   user.ID,
		Username: user.Username,
		Text:     text,
	}

	if err := app.store.Comments.Create(r.Context(), comment); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, comment); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
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

	sortMode := r.URL.Query().Get("sort")
	if sortMode != store.CommentSortRecent {
		sortMode = store.CommentSortHelpful
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	comments, total, err := app.store.Comments.ListVisible(r.Context(), place.ID, sortMode, page, commentsPageSize)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"comments": comments,
		"total":    total,
		"page":     page,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) upvoteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentIDStr := chi.URLParam(r, "commentID")
	commentID, err := strconv.ParseInt(commentIDStr, 10, 64)
	if err != nil || commentID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid commentID"))
		return
	}

	comment, err := app.store.Comments.GetByID(r.Context(), commentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if comment.Status == store.CommentStatusRemoved {
		app.notFoundResponse(w, r, fmt.Errorf("comment removed"))
		return
	}

	user := getUserFromContext(r)

	if !app.allow(r, fmt.Sprintf("comment:upvote:%d", user.ID), commentUpvoteBudget) {
		app.rateLimitExceededResponse(w, r)
		return
	}

	upvotes, err := app.store.Comments.IncrementUpvotes(r.Context(), commentID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int{"upvotes": upvotes}); err != nil {
		app.internalServerError(w, r, err)
	}
}
