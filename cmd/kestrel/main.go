package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kestrel-leasing/kestrel-leasing/internal/app"
	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/contracts"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/assets"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/clients"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/insurers"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/suppliers"
	"github.com/kestrel-leasing/kestrel-leasing/internal/observability"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/cache"
	"github.com/kestrel-leasing/kestrel-leasing/internal/platform/db"
	"github.com/kestrel-leasing/kestrel-leasing/internal/reports"
	"github.com/kestrel-leasing/kestrel-leasing/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var reportCache *cache.Cache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports served uncached", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		reportCache = cache.NewCache(redisClient, cfg.CacheTTL)
	}

	clientHandler := clients.NewHandler(logger, clients.NewRepository(pool))
	supplierHandler := suppliers.NewHandler(logger, suppliers.NewRepository(pool))
	insurerHandler := insurers.NewHandler(logger, insurers.NewRepository(pool))
	assetHandler := assets.NewHandler(logger, assets.NewRepository(pool))

	appService := applications.NewService(applications.NewRepository(pool), reportCache, logger)
	appHandler := applications.NewHandler(logger, appService)

	contractService := contracts.NewService(contracts.NewRepository(pool), appService, reportCache, logger)
	contractHandler := contracts.NewHandler(logger, contractService)

	reportService := reports.NewService(appService, contractService, reportCache, logger)
	reportHandler := reports.NewHandler(logger, reportService)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Config:              cfg,
		Metrics:             metrics,
		ClientsHandler:      clientHandler,
		SuppliersHandler:    supplierHandler,
		InsurersHandler:     insurerHandler,
		AssetsHandler:       assetHandler,
		ApplicationsHandler: appHandler,
		ContractsHandler:    contractHandler,
		ReportsHandler:      reportHandler,
		JobHandler:          jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
