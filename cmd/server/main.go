package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ayush/gestion-taches/internal/auth"
	"github.com/ayush/gestion-taches/internal/config"
	"github.com/ayush/gestion-taches/internal/logger"
	"github.com/ayush/gestion-taches/internal/middleware"
	"github.com/ayush/gestion-taches/internal/server"
	"github.com/ayush/gestion-taches/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New("gestion-taches", cfg.LogLevel)
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	mongoClient, db, err := store.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("mongo connect")
	}
	defer mongoClient.Disconnect(ctx)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("mongo indexes")
	}
	log.WithField("db", cfg.MongoDB).Info("MongoDB connected")

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	userStore := store.NewUserStore(db, hasher)
	taskStore := store.NewTaskStore(db, log)
	categoryStore := store.NewCategoryStore(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := server.Deps{
		Config:     cfg,
		Log:        log,
		Metrics:    middleware.NewMetrics(reg),
		Users:      userStore,
		Tasks:      taskStore,
		Categories: categoryStore,
		Passwords:  hasher,
	}

	// ── Redis (login sessions) ───────────────────────────────
	if cfg.SessionsEnabled() {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Fatal("redis connect")
		}
		defer rdb.Close()
		deps.Sessions = auth.NewSessionStore(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, login routes disabled")
	}

	// ── MinIO (category icons) ───────────────────────────────
	if cfg.IconsEnabled() {
		icons, err := store.NewIconStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.WithError(err).Fatal("minio connect")
		}
		deps.Icons = icons
	} else {
		log.Warn("MINIO_ENDPOINT not set, category icon routes disabled")
	}

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
