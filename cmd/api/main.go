package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/adapters/auth"
	"villa_mare/internal/adapters/export"
	"villa_mare/internal/adapters/extractor"
	server "villa_mare/internal/adapters/http_server"
	"villa_mare/internal/adapters/observability"
	redisad "villa_mare/internal/adapters/redis"
	"villa_mare/internal/adapters/telegram"
	"villa_mare/internal/adapters/uploads"
	"villa_mare/internal/app"
	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
	"villa_mare/internal/shared"
	mysqlrepo "villa_mare/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		// the site keeps working from MySQL alone
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, serving uncached")
	}

	policy := availability.FailOpen
	if cfg.FailClosed {
		policy = availability.FailClosed
	}

	var notifier domain.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		n, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramEndpoint)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = n
		}
	}

	var ext domain.ReviewExtractor
	if cfg.AIKey != "" {
		c, err := extractor.New(cfg.AIBase, cfg.AIKey, cfg.AIModel, 2)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize review extractor")
		}
		ext = c
	}

	var images domain.ImageStore
	if cfg.CloudinaryName != "" {
		u, err := uploads.New(uploads.Config{
			APIBase:   cfg.CloudinaryAPI,
			CloudName: cfg.CloudinaryName,
			APIKey:    cfg.CloudinaryKey,
			APISecret: cfg.CloudinarySecret,
			Folder:    cfg.CloudinaryFolder,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize image uploads")
		}
		images = u
	}

	h := &server.Handlers{Now: cfg.Now}
	calendar := app.NewCalendarService(repo, repo, policy, cfg.Now)
	h.Q = app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	h.Calendar = calendar
	h.Bookings = app.NewBookingService(repo, calendar, cache, notifier, export.NewXLSX(), cfg.Now)
	h.Reviews = app.NewReviewService(repo, ext, cache, cfg.Now)
	h.Admin = app.NewAdminService(repo, images, cache)
	if cfg.JWTSecret != "" {
		tokens, err := auth.New(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid JWT_SECRET")
		}
		h.Auth = app.NewAuthService(repo, tokens)
		h.Verifier = tokens
	}
	h.Ready = func(ctx context.Context) error {
		if err := repo.Ping(ctx); err != nil {
			return err
		}
		return cache.Ping(ctx)
	}

	// http
	var limiter *server.IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = server.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitRPS*2)
		go limiter.Run(ctx)
	}
	srv := server.New(server.Options{CORSOrigins: cfg.CORSOrigins, Limiter: limiter})
	if metricsSrv == nil {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("policy", policy.String()).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	_ = cache.Close()
	_ = db.Close()
}
