package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"whereto/internal/auth"
	"whereto/internal/db"
	"whereto/internal/feeds"
	"whereto/internal/moderation"
	"whereto/internal/ratelimiter"
	"whereto/internal/reporting"
	"whereto/internal/store"
	"whereto/internal/visits"
	"whereto/internal/voting"
)

var version = "1.0.0"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables.
func LoadRateLimiterConfig() ratelimiter.Config {
	enabled := true
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", enabled)
		}
	}
	return ratelimiter.Config{Enabled: enabled}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	autoApprove := true
	if val, exists := os.LookupEnv("AUTO_APPROVE_PLACES"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			autoApprove = parsedVal
		}
	}

	cfg := config{
		addr:              os.Getenv("ADDR"),
		env:               os.Getenv("ENV"),
		apiURL:            os.Getenv("EXTERNAL_URL"),
		frontendURL:       os.Getenv("FRONTEND_URL"),
		autoApprovePlaces: autoApprove,
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  time.Hour * 24 * 3,
				refreshTokenExp: time.Hour * 24 * 9,
				iss:             "whereto",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	storage := store.NewStorage(pool)

	cloudinaryURL := os.Getenv("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		logger.Fatal(err)
	}

	var limiter ratelimiter.Limiter
	if cfg.rateLimiter.Enabled {
		fw := ratelimiter.NewFixedWindow()
		go func() {
			for range time.Tick(time.Minute) {
				fw.Cleanup()
			}
		}()
		limiter = fw
	} else {
		limiter = ratelimiter.Disabled{}
	}

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	moderationSvc := moderation.NewService(storage.Places, storage.Comments, storage.Reports, storage.Actions, logger)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         storage,
		cld:           cld,
		authenticator: jwtAuthenticator,
		rateLimiter:   limiter,
		voting:        voting.NewService(storage.Places, storage.Votes, limiter, voting.DefaultBudget, logger),
		reporting:     reporting.NewService(storage.Places, storage.Comments, storage.Reports, moderationSvc, limiter, reporting.DefaultBudget, logger),
		visits:        visits.NewService(storage.Places, storage.Visits, limiter, visits.DefaultBudget, logger),
		feeds:         feeds.NewService(storage.Feeds, logger),
		moderation:    moderationSvc,
	}

	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		stat := pool.Stat()
		return map[string]any{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
