package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/kestrel-leasing/kestrel-leasing/internal/app"
	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/contracts"
	jobmetrics "github.com/kestrel-leasing/kestrel-leasing/internal/jobs"
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
		logger.Warn("redis unavailable, warmup writes skipped", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		reportCache = cache.NewCache(redisClient, cfg.CacheTTL)
	}

	appService := applications.NewService(applications.NewRepository(pool), reportCache, logger)
	contractService := contracts.NewService(contracts.NewRepository(pool), appService, reportCache, logger)
	reportService := reports.NewService(appService, contractService, reportCache, logger)

	metrics := jobmetrics.NewMetrics(nil)
	overdueScan := jobs.NewOverdueScanJob(contractService, logger, metrics)
	warmup := jobs.NewDashboardWarmupJob(reportService, logger, metrics)

	overdueTask, err := jobs.NewOverdueScanTask(jobs.OverdueScanPayload{})
	if err != nil {
		logger.Error("build overdue task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOverdueScan, Handler: overdueScan.Handle},
			{Type: jobs.TaskDashboardWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: overdueTask},
			{Spec: "*/30 * * * *", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
