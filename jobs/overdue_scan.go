package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kestrel-leasing/kestrel-leasing/internal/contracts"
	jobmetrics "github.com/kestrel-leasing/kestrel-leasing/internal/jobs"
	"github.com/kestrel-leasing/kestrel-leasing/internal/shared"
)

// OverdueScanJob walks every contract and reconciles it as of a date,
// logging positions with overdue installments so collections can follow up.
type OverdueScanJob struct {
	Contracts *contracts.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewOverdueScanJob wires dependencies for the scan handler.
func NewOverdueScanJob(contractSvc *contracts.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *OverdueScanJob {
	return &OverdueScanJob{
		Contracts: contractSvc,
		Logger:    logger,
		Metrics:   metrics,
		clock:     shared.Today,
	}
}

// Handle processes overdue scan tasks.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Contracts == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.now()
	if payload.AsOf != "" {
		parsed, err := shared.ParseDate(payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	tracker := j.Metrics.Track(TaskOverdueScan)
	logger := j.logger().With(slog.Time("as_of", asOf))
	logger.Info("starting overdue scan")

	list, err := j.Contracts.List(ctx)
	if err != nil {
		logger.Error("list contracts", slog.Any("error", err))
		return tracker.End(err)
	}

	flagged := 0
	for _, c := range list {
		snapshot, err := j.Contracts.Reconciliation(ctx, c.ID, asOf)
		if err != nil {
			logger.Error("reconcile contract", slog.Int64("contract_id", c.ID), slog.Any("error", err))
			return tracker.End(err)
		}
		if snapshot.Overdue == 0 {
			continue
		}
		flagged++
		logger.Warn("contract overdue",
			slog.Int64("contract_id", c.ID),
			slog.String("number", c.Number),
			slog.Int("overdue_count", snapshot.Overdue),
			slog.String("arrears", snapshot.Arrears.String()),
		)
	}

	j.Metrics.SetOverdueContracts(flagged)
	logger.Info("completed overdue scan", slog.Int("contracts", len(list)), slog.Int("flagged", flagged))
	return tracker.End(nil)
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return shared.Today()
}
