package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store_opening_backend/internal/adapters/storage"
	"store_opening_backend/internal/authz"
	"store_opening_backend/internal/dashboard"
	dashboardservice "store_opening_backend/internal/dashboard/service"
	"store_opening_backend/internal/email"
	"store_opening_backend/internal/events"
	apphttp "store_opening_backend/internal/http"
	"store_opening_backend/internal/http/router"
	"store_opening_backend/internal/notification"
	"store_opening_backend/internal/projects"
	"store_opening_backend/internal/scheduler"
	"store_opening_backend/internal/trackers"
	trackerservice "store_opening_backend/internal/trackers/service"
	"store_opening_backend/migrations"
	"store_opening_backend/platform/cache"
	"store_opening_backend/platform/config"
	"store_opening_backend/platform/db"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if cfg.MigrationsEnabled {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	policy, err := authz.Load(cfg.GetPermissionPolicyPath())
	if err != nil {
		panic("failed to load permission policy: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, "license-certificates", cfg.GetMinioBucketLicenseCertificates())
		ensureBucket(ctx, log, minioSvc, "inspection-photos", cfg.GetMinioBucketInspectionPhotos())
		storageSvc = minioSvc
		log.Info("storage service initialized",
			"certificatesBucket", cfg.GetMinioBucketLicenseCertificates(),
			"inspectionPhotosBucket", cfg.GetMinioBucketInspectionPhotos(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; uploads disabled")
	}

	var statsCache dashboardservice.Cache
	var sweepClient *scheduler.Client
	if cfg.GetRedisURL() != "" {
		redisClient, err := cache.NewRedis(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis; dashboard cache disabled", "error", err)
		} else {
			defer func() { _ = redisClient.Close() }()
			statsCache = dashboardservice.NewRedisCache(redisClient, cfg.GetDashboardCacheTTL())
		}

		if sweepClient, err = scheduler.NewClient(cfg); err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
		} else {
			defer func() { _ = sweepClient.Close() }()
		}
	} else {
		log.Warn("REDIS_URL not configured; dashboard cache and manual sweeps disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	notificationModule := notification.New(notification.NewUserDirectory(pool), newSender(cfg, log), log)
	notificationModule.RegisterHandlers(eventBus)

	projectsModule := projects.NewModule(pool, eventBus, val, log)
	trackersModule := trackers.NewModule(pool, storageSvc, trackerservice.Buckets{
		Certificates:     cfg.GetMinioBucketLicenseCertificates(),
		InspectionPhotos: cfg.GetMinioBucketInspectionPhotos(),
	}, eventBus, val, log)
	dashboardModule := dashboard.NewModule(pool, statsCache, eventBus, val, log)

	modules := []apphttp.Module{projectsModule, trackersModule, dashboardModule}
	if sweepClient != nil {
		modules = append(modules, scheduler.NewModule(sweepClient))
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Health:      db.NewPoolAdapter(pool),
		EventBus:    eventBus,
		Permissions: policy,
		Modules:     modules,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func newSender(cfg config.SMTPConfig, log *logger.Logger) email.Sender {
	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP_HOST not configured; notification emails are logged only")
		return email.NewLogSender(log)
	}
	return email.NewSMTPSender(cfg)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
