package temporal

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/logger"
)

//go:generate mockgen -source=orchestrator.go -destination=../../mocks/temporal_orchestrator.go -package=mocks -mock_names=TemporalOrchestrator=MockTemporalOrchestrator
type TemporalOrchestrator interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// CronWorkflow describes a workflow that runs on a cron schedule under a fixed id
type CronWorkflow struct {
	ID        string
	TaskQueue string
	Schedule  string
	Workflow  interface{}
}

// EnsureCronWorkflow starts the cron workflow unless a run with the same id is already active
func EnsureCronWorkflow(ctx context.Context, orchestrator TemporalOrchestrator, cron CronWorkflow) error {
	if cron.ID == "" || cron.TaskQueue == "" || cron.Schedule == "" {
		return fmt.Errorf("cron workflow requires an id, a task queue and a schedule")
	}

	run, err := orchestrator.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           cron.ID,
		TaskQueue:    cron.TaskQueue,
		CronSchedule: cron.Schedule,
	}, cron.Workflow)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			logger.InfoCtx(ctx, "Cron workflow already running", zap.String("workflowID", cron.ID))
			return nil
		}
		return fmt.Errorf("failed to start cron workflow %s: %w", cron.ID, err)
	}

	logger.InfoCtx(ctx, "Started cron workflow",
		zap.String("workflowID", run.GetID()),
		zap.String("runID", run.GetRunID()),
		zap.String("schedule", cron.Schedule),
	)
	return nil
}
