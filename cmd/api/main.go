package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/bryanwahyu/legalens/internal/application/analysis"
	appdocs "github.com/bryanwahyu/legalens/internal/application/documents"
	"github.com/bryanwahyu/legalens/internal/application/recommend"
	"github.com/bryanwahyu/legalens/internal/config"
	"github.com/bryanwahyu/legalens/internal/domain/reports"
	aiclient "github.com/bryanwahyu/legalens/internal/infra/ai/openai"
	"github.com/bryanwahyu/legalens/internal/infra/ai/prompt"
	"github.com/bryanwahyu/legalens/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/legalens/internal/infra/storage"
	"github.com/bryanwahyu/legalens/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init summarizer backend
	client := aiclient.NewClient(cfg.APIKey(), cfg.OpenAI.Model)
	analyzer := analysis.NewService(client, prompt.GetAnalysisInstructions())
	analyzer.MaxRetries = cfg.Analysis.MaxRetries
	analyzer.RetryDelay = cfg.RetryDelay()
	if err := analyzer.Init(ctx); err != nil {
		log.Fatalf("summarizer init error: %v", err)
	}

	// init report export store (optional)
	var exports reports.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		exports = store
	}

	// init services
	docs := appdocs.NewService(analyzer, recommend.NewEngine(), exports)

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"summarizer": middleware.ReadyFunc(analyzer.Ready),
	}))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(docs))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
