package main

import (
	"fmt"
	"net/http"
	"strconv"
)

func (app *application) exploreFeedHandler(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		app.badRequestResponse(w, r, fmt.Errorf("city is required"))
		return
	}

	explore := app.feeds.Explore(r.Context(), city)

	if err := app.jsonResponse(w, http.StatusOK, explore); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) trendingFeedHandler(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		app.badRequestResponse(w, r, fmt.Errorf("city is required"))
		return
	}

	limit := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = l
	}

	cards, err := app.feeds.Trending(r.Context(), city, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cards); err != nil {
		app.internalServerError(w, r, err)
	}
}
