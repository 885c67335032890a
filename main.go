package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/config"
	"github.com/atmacsn/agriadmin/controllers"
	"github.com/atmacsn/agriadmin/database"
	"github.com/atmacsn/agriadmin/events"
	"github.com/atmacsn/agriadmin/logging"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/ratelimit"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/routes"
	"github.com/atmacsn/agriadmin/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger, err := logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up logging")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer database.Disconnect(client)

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.WithError(err).Fatal("failed to create indexes")
	}
	if err := seedAdmin(ctx, cfg, logger, db.Name(), func(email, hash string) (bool, error) {
		return repository.SeedAdmin(ctx, db, email, hash)
	}); err != nil {
		logger.WithError(err).Fatal("failed to seed admin")
	}

	m := metrics.New()
	stores := repository.NewMongoStores(db)
	ledger := repository.NewTokenLedger(stores.Revoked)
	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})

	publisher := newPublisher(cfg, logger, m)
	defer publisher.Close()

	files, closeFiles := newObjectStore(ctx, cfg, logger)
	defer closeFiles()

	ctrl := controllers.New(controllers.Options{
		Stores:            stores,
		Tokens:            tokens,
		Ledger:            ledger,
		Cookies:           auth.CookieConfig{Secure: cfg.Auth.CookieSecure, Domain: cfg.Auth.CookieDomain},
		Events:            publisher,
		Metrics:           m,
		Logger:            logger,
		Files:             files,
		Validator:         storage.NewFileValidator(cfg.Upload.AllowedExtensions, cfg.Upload.AllowedMimeTypes, cfg.Upload.MaxSizeMB),
		DefaultLimit:      cfg.Query.DefaultLimit,
		MaxLimit:          cfg.Query.MaxLimit,
		AdminRegistration: cfg.Admin.RegistrationEnabled,
	})

	router := routes.NewRouter(routes.Options{
		Controller:     ctrl,
		Tokens:         tokens,
		Ledger:         ledger,
		Metrics:        m,
		LoginLimiter:   newLoginLimiter(cfg, logger),
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func seedAdmin(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, dbName string, seed func(email, hash string) (bool, error)) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	created, err := seed(cfg.Admin.Email, hash)
	if err != nil {
		return err
	}
	if created {
		logger.WithFields(logrus.Fields{"email": cfg.Admin.Email, "database": dbName}).Info("seeded admin account")
	}
	return nil
}

func newLoginLimiter(cfg *config.Config, logger logrus.FieldLogger) ratelimit.Limiter {
	if cfg.RateLimit.LoginPerMinute <= 0 {
		return nil
	}
	if cfg.RateLimit.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginPerMinute, time.Minute)
	}
	opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid REDIS_URL, using in-memory login limiter")
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginPerMinute, time.Minute)
	}
	return ratelimit.NewRedisLimiter(redis.NewClient(opts), cfg.RateLimit.LoginPerMinute, time.Minute, "login")
}

func newPublisher(cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NoopPublisher{}
	}
	logger.WithField("topic", cfg.Kafka.Topic).Info("publishing audit events to kafka")
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, m)
}

func newObjectStore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (storage.ObjectStore, func()) {
	s := cfg.Storage
	switch s.Provider {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          s.Bucket,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			Endpoint:        s.Endpoint,
			Region:          s.Region,
			PublicBase:      s.PublicBaseURL,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to configure S3 storage")
		}
		return store, func() {}
	case "gcs":
		store, err := storage.NewGCSStore(ctx, s.Bucket, s.CredentialsFile, s.PublicBaseURL)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure GCS storage")
		}
		return store, func() { _ = store.Close() }
	default:
		logger.Warn("no storage provider configured, uploads are disabled")
		return nil, func() {}
	}
}
