package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"ripple/internal/api/middleware"
	"ripple/internal/api/routes"
	"ripple/internal/config"
	"ripple/internal/core/feeds"
	"ripple/internal/core/posts"
	postgresRepo "ripple/internal/db/postgres"
	"ripple/internal/storage/s3"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	mediaStore, err := s3.New(s3.Config{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UseSSL:        cfg.S3UseSSL,
	})
	if err != nil {
		log.Fatal("Failed to create media store client:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mediaStore.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to ensure media bucket:", err)
	}
	cancel()

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// 100 requests per minute per client
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// Repositories and services
	postRepo := postgresRepo.NewPostRepository(db)
	feedRepo := postgresRepo.NewFeedRepository(db)
	directory := postgresRepo.NewUserDirectory(db)

	postService := posts.NewService(postRepo, directory, mediaStore, logger)
	feedService := feeds.NewService(feedRepo, directory, logger)

	routes.RegisterPostRoutes(r, postService, auth)
	routes.RegisterFeedRoutes(r, feedService, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("Ripple server starting on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
