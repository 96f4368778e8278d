package main

import (
	"context"
	"errors"
	"grievance/backend/internal/api/handler"
	"grievance/backend/internal/auth"
	"grievance/backend/internal/classifier"
	"grievance/backend/internal/config"
	"grievance/backend/internal/grievance"
	"grievance/backend/internal/metrics"
	"grievance/backend/internal/reclassify"
	"grievance/backend/internal/session"
	"grievance/backend/internal/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Database and Redis connections established.")
	return db, rdb
}

func main() {
	log.Println("Starting Grievance Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. Dependencies and migrations
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 2. Services
	m := metrics.New()
	cl := classifier.NewClient(classifier.Options{
		BaseURL:       cfg.Classifier.URL,
		Timeout:       cfg.Classifier.Timeout,
		RetryAttempts: cfg.Classifier.RetryAttempts,
		RetryInitial:  cfg.Classifier.RetryInitial,
		RetryMax:      cfg.Classifier.RetryMaxPeriod,
	})
	grievances := grievance.NewService(s, cl, m)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authService := auth.NewService(s, jwtManager, session.NewRedisStore(rdb))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Background re-classification
	if cfg.Reclassify.Enabled {
		worker := reclassify.NewWorker(s, grievances, cfg.Reclassify.Interval, cfg.Reclassify.BatchSize)
		go worker.Run(ctx)
	}

	// 4. HTTP
	h := handler.NewHandler(grievances, authService, m.Handler())
	server := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        handler.NewRouter(h),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Printf("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("ERROR: Closing Redis: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
