package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueScan walks active contracts and logs overdue positions.
	TaskOverdueScan = "contracts:overdue_scan"
	// TaskDashboardWarmup pre-populates the reporting dashboard cache.
	TaskDashboardWarmup = "reports:dashboard_warmup"
)

// OverdueScanPayload configures an overdue scan run. AsOf is a calendar date
// in 2006-01-02 form; empty means today.
type OverdueScanPayload struct {
	AsOf string `json:"as_of,omitempty"`
}

// NewOverdueScanTask constructs an overdue scan task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}

// DashboardWarmupPayload configures a warmup run. Empty Periods means all
// supported granularities.
type DashboardWarmupPayload struct {
	Periods []string `json:"periods,omitempty"`
}

// NewDashboardWarmupTask constructs a dashboard warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
