package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verilens/verilens/internal/application"
	appanalyses "github.com/verilens/verilens/internal/application/analyses"
	appreports "github.com/verilens/verilens/internal/application/reports"
	"github.com/verilens/verilens/internal/config"
	domanalyses "github.com/verilens/verilens/internal/domain/analyses"
	"github.com/verilens/verilens/internal/domain/analyzer"
	domreports "github.com/verilens/verilens/internal/domain/reports"
	analyzerdemo "github.com/verilens/verilens/internal/infra/analyzer/demo"
	analyzeropenai "github.com/verilens/verilens/internal/infra/analyzer/openai"
	analyzerremote "github.com/verilens/verilens/internal/infra/analyzer/remote"
	mysqlp "github.com/verilens/verilens/internal/infra/db/mysql"
	postgresp "github.com/verilens/verilens/internal/infra/db/postgres"
	"github.com/verilens/verilens/internal/infra/httpserver"
	minioStore "github.com/verilens/verilens/internal/infra/storage"
	"github.com/verilens/verilens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (driver dipilih dari config)
	var db *sql.DB
	var analysisRepo domanalyses.Repository
	var reportRepo domreports.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		analysisRepo = postgresp.NewAnalysisRepository(db)
		reportRepo = postgresp.NewReportRepository(db)
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		reportRepo = mysqlp.NewReportRepository(db)
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	defer db.Close()

	// init analyzer provider
	var provider analyzer.Client
	switch cfg.Analyzer.Provider {
	case "demo":
		provider = analyzerdemo.NewGenerator()
	case "remote":
		if cfg.Analyzer.Endpoint == "" {
			log.Fatalf("analyzer endpoint is required for the remote provider")
		}
		provider = analyzerremote.NewClient(cfg.Analyzer.Endpoint)
	case "openai":
		provider = analyzeropenai.NewClient(cfg.Analyzer.APIKey, cfg.Analyzer.Model)
	default:
		log.Fatalf("unknown analyzer provider: %s", cfg.Analyzer.Provider)
	}

	// init minio (optional; /media stays off without it)
	var media httpserver.MediaStore
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Minio.Endpoint != "" {
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
		media = store
		checkers["storage"] = middleware.CheckerFunc(store.Healthy)
	}

	// init services
	clock := application.SystemClock{}
	analysesSvc := &appanalyses.Service{
		Repo:     analysisRepo,
		Analyzer: provider,
		Clock:    clock,
	}
	reportsSvc := &appreports.Service{
		Analyses: analysisRepo,
		Reports:  reportRepo,
		Clock:    clock,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.RateLimitMiddleware(100, 50))
	mux.Mount("/", httpserver.NewRouter(
		analysesSvc,
		reportsSvc,
		media,
		cfg.Auth.Identities,
		middleware.HealthHandler(checkers),
	))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: biarkan in-flight writes selesai dulu
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
