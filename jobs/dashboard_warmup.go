package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/kestrel-leasing/kestrel-leasing/internal/jobs"
	"github.com/kestrel-leasing/kestrel-leasing/internal/reports"
	"github.com/kestrel-leasing/kestrel-leasing/internal/timeseries"
)

// DashboardWarmupJob pre-populates the dashboard cache so the first request
// after a cache bump does not pay the aggregation cost.
type DashboardWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(reportSvc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Reports: reportSvc, Logger: logger, Metrics: metrics}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	periods := payload.Periods
	if len(periods) == 0 {
		periods = []string{
			string(timeseries.Day),
			string(timeseries.Month),
			string(timeseries.Quarter),
			string(timeseries.Year),
		}
	}

	tracker := j.Metrics.Track(TaskDashboardWarmup)
	logger := j.logger()
	logger.Info("starting dashboard warmup", slog.Int("periods", len(periods)))

	for _, raw := range periods {
		period, err := timeseries.ParseGranularity(raw)
		if err != nil {
			logger.Warn("skip unknown period", slog.String("period", raw))
			continue
		}
		if _, err := j.Reports.Dashboard(ctx, period); err != nil {
			logger.Error("warm dashboard", slog.String("period", raw), slog.Any("error", err))
			return tracker.End(err)
		}
	}

	logger.Info("completed dashboard warmup")
	return tracker.End(nil)
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}
