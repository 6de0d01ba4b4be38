package main

import (
	"bannerapi/internal/config"
	"bannerapi/internal/database/driver"
	"bannerapi/internal/database/migrations"
	"bannerapi/internal/database/repository/sqlstore"
	"bannerapi/internal/http-server/router"
	"bannerapi/internal/imagestage"
	"bannerapi/internal/imagestage/local"
	"bannerapi/internal/imagestage/metrics"
	"bannerapi/internal/imagestage/minio"
	"bannerapi/internal/service"
	"bannerapi/pkg/lib/logger/slogpretty"
	"bannerapi/pkg/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg, scr := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting app", slog.String("env", cfg.Env))

	log.Debug("debug messages are enabled")

	var dataSourceName string
	switch cfg.DriverName {
	case config.DriverPostgres:
		dataSourceName = driver.PostgresDSN(cfg.Host, cfg.Port, cfg.Username, scr.PostgresPassword, cfg.DBname, cfg.SSLmode)
	case config.DriverSQLite:
		dataSourceName = driver.SQLiteDSN(cfg.SQLitePath)
	}

	sqlxConfig := &driver.SQLXConfig{
		DriverName:     cfg.DriverName,
		DataSourceName: dataSourceName,
		MaxOpenConns:   cfg.MaxOpenConns,
		MaxIdleConns:   cfg.MaxIdleConns,
		MaxLifetime:    cfg.MaxLifetime,
	}

	db, err := sqlxConfig.NewSQLXDatabase(log)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if cfg.Migrate {
		if err := migrations.Up(context.Background(), log, db.DB, cfg.DriverName); err != nil {
			log.Error("failed to migrate storage", sl.Err(err))
			os.Exit(1)
		}
	}

	bannerRepository := sqlstore.NewBannerRepository(db)

	stager, publicDir, err := setupImageStage(log, cfg, scr)
	if err != nil {
		log.Error("failed to init image stage", sl.Err(err))
		os.Exit(1)
	}

	bannerService := service.NewBannerService(log, bannerRepository, stager, cfg.MaxImageSize)

	handler := router.New(log, bannerService, router.Options{
		MaxBodySize: cfg.MaxBodySize,
		PublicPath:  cfg.PublicPath,
		PublicDir:   publicDir,
		Metrics:     promhttp.Handler(),
	})

	log.Info("starting server", slog.String("address", cfg.Address))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("shutting server", sl.Err(err))
				return
			}
			log.Error("failed to start server", sl.Err(err))
		}
	}()

	log.Info("server started")
	sign := <-done
	log.Info("stopping server", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
		return
	}

	if err := db.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
		return
	}

	log.Info("server stopped")
}

// setupImageStage builds the configured backend behind the metrics decorator.
// publicDir is empty unless images live on local disk.
func setupImageStage(log *slog.Logger, cfg *config.Config, scr *config.Secret) (imagestage.Stager, string, error) {
	var (
		backend   imagestage.Stager
		publicDir string
	)

	switch cfg.Backend {
	case config.BackendLocal:
		stager, err := local.New(log, cfg.LocalDir)
		if err != nil {
			return nil, "", err
		}
		backend, publicDir = stager, stager.Dir()
	case config.BackendMinio:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
		defer cancel()

		stager, err := minio.New(ctx, log, minio.Config{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.AccessKey,
			SecretAccessKey: scr.MinioSecretKey,
			UseSSL:          cfg.Minio.UseSSL,
			BucketName:      cfg.Minio.Bucket,
			Region:          cfg.Minio.Region,
		})
		if err != nil {
			return nil, "", err
		}
		backend = stager
	default:
		return nil, "", fmt.Errorf("unknown image stage backend %q", cfg.Backend)
	}

	instrumented, err := metrics.New(backend, "", prometheus.DefaultRegisterer)
	if err != nil {
		return nil, "", err
	}

	return instrumented, publicDir, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettyLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

func setupPrettyLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
