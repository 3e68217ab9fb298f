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
	"go.uber.org/zap"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	appeval "github.com/bryanwahyu/image-evaluator/internal/application/evaluation"
	appsession "github.com/bryanwahyu/image-evaluator/internal/application/session"
	"github.com/bryanwahyu/image-evaluator/internal/config"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
	domsession "github.com/bryanwahyu/image-evaluator/internal/domain/session"
	"github.com/bryanwahyu/image-evaluator/internal/infra/batchstore"
	"github.com/bryanwahyu/image-evaluator/internal/infra/content"
	"github.com/bryanwahyu/image-evaluator/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/image-evaluator/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/image-evaluator/internal/infra/db/postgres"
	"github.com/bryanwahyu/image-evaluator/internal/infra/httpserver"
	"github.com/bryanwahyu/image-evaluator/internal/infra/random"
	"github.com/bryanwahyu/image-evaluator/internal/infra/storage"
	"github.com/bryanwahyu/image-evaluator/internal/logger"
	"github.com/bryanwahyu/image-evaluator/internal/metrics"
	"github.com/bryanwahyu/image-evaluator/internal/middleware"
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

	zl, err := logger.New(logger.Config{
		Environment: cfg.Log.Environment,
		LogLevel:    cfg.Log.Level,
		ServiceName: "image-evaluator",
	})
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync()

	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checkers := map[string]middleware.HealthChecker{}

	// session repository
	sessions, db, err := sessionRepository(ctx, cfg)
	if err != nil {
		zl.Fatal("session repository init error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// image store
	var images domain.ImageStore = storage.InlineStore{MaxBytes: cfg.Storage.MaxImageBytes}
	if cfg.Storage.Driver == "minio" {
		store, err := storage.NewMinio(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			zl.Fatal("minio init error", zap.Error(err))
		}
		images = store
		checkers["storage"] = store
	}

	// narrative catalog
	catalog := content.Default()
	if cfg.Analysis.CatalogPath != "" {
		catalog, err = content.Load(cfg.Analysis.CatalogPath)
		if err != nil {
			zl.Fatal("catalog load error", zap.String("path", cfg.Analysis.CatalogPath), zap.Error(err))
		}
	}

	clock := application.SystemClock{}
	batches := batchstore.NewMemory(cfg.Analysis.ResultTTL, clock)
	go batches.Run(ctx, cfg.Analysis.SweepInterval)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	go limiter.Run(ctx.Done(), 5*time.Minute)

	// init services
	sessionSvc := &appsession.Service{
		Repo: sessions,
		User: domsession.User{
			ID:    cfg.Session.UserID,
			Name:  cfg.Session.UserName,
			Email: cfg.Session.UserEmail,
		},
		Clock: clock,
		Log:   zl.Named("session"),
	}
	evalSvc := &appeval.Service{
		Generator: domain.NewGenerator(random.New(cfg.Analysis.Seed), catalog),
		Images:    images,
		Batches:   batches,
		Clock:     clock,
		Delay:     cfg.Analysis.Delay,
		Log:       zl.Named("evaluation"),
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(sessionSvc, evalSvc, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxImageBytes:  cfg.Storage.MaxImageBytes,
		RateLimiter:    limiter,
		Checkers:       checkers,
		Log:            zl.Named("http"),
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.Analysis.Delay,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("database", cfg.Database.Driver),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zl.Info("shutting down server...")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
}

// sessionRepository picks the adapter named by database.driver.
// The returned *sql.DB is nil for the in-memory driver.
func sessionRepository(ctx context.Context, cfg *config.Config) (domsession.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN(), mysqlp.Pool{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mysqlp.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN(), pgp.Pool{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := pgp.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	default:
		return memory.NewSessionRepository(), nil, nil
	}
}
