package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"whereto/internal/auth"
	"whereto/internal/feeds"
	"whereto/internal/moderation"
	"whereto/internal/ratelimiter"
	"whereto/internal/reporting"
	"whereto/internal/store"
	"whereto/internal/visits"
	"whereto/internal/voting"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter

	voting     *voting.Service
	reporting  *reporting.Service
	visits     *visits.Service
	feeds      *feeds.Service
	moderation *moderation.Service
}

type config struct {
	addr              string
	env               string
	apiURL            string
	frontendURL       string
	autoApprovePlaces bool
	db                dbConfig
	auth              authConfig
	rateLimiter       ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/feed", func(r chi.Router) {
			r.Get("/explore", app.exploreFeedHandler)
			r.Get("/trending", app.trendingFeedHandler)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/", app.listPlacesHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createPlaceHandler)
			})

			r.Route("/{placeSlug}", func(r chi.Router) {
				r.Get("/", app.getPlaceHandler)
				r.Get("/comments", app.listCommentsHandler)

				r.Group(func(r chi.Router) {
					r.Use(app.AuthTokenMiddleware)
					r.Post("/vote", app.castVoteHandler)
					r.Post("/comments", app.createCommentHandler)
					r.Post("/visits", app.confirmVisitHandler)
					r.Post("/save", app.toggleSavedPlaceHandler)
				})
			})
		})

		r.Route("/comments/{commentID}", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/upvote", app.upvoteCommentHandler)
		})

		r.Get("/users/{username}", app.getPublicProfileHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/upload", app.uploadPhotosHandler)
			r.Post("/reports", app.fileReportHandler)
			r.Get("/users/me", app.getProfileHandler)
			r.Get("/users/me/places", app.listOwnPlacesHandler)
			r.Get("/users/me/saved", app.listSavedPlacesHandler)
		})

		r.Route("/moderation", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireModerator)
			r.Get("/queue", app.moderationQueueHandler)
			r.Post("/actions", app.applyModerationActionHandler)
			r.Get("/targets/{targetType}/{targetID}/history", app.moderationHistoryHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
