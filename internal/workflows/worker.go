package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/logger"
)

// IDENTITY_RESET_WORKFLOW_ID is the fixed id of the cron workflow resetting identity usage
const IDENTITY_RESET_WORKFLOW_ID = "identity-usage-reset"

// WorkerCore defines the maintenance workflows of the acquirer
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker_core.go -package=mocks -mock_names=WorkerCore=MockCoreWorker
type WorkerCore interface {
	// IdentityUsageReset zeroes identity booking counters for the current month
	IdentityUsageReset(ctx workflow.Context) (*IdentityResetResult, error)
}

// WorkerCoreConfig holds the tuning of the maintenance workflows
type WorkerCoreConfig struct {
	// ActivityTimeout bounds a single activity execution
	ActivityTimeout time.Duration
	// MaxAttempts is the retry budget of each activity
	MaxAttempts int32
}

type workerCore struct {
	config   WorkerCoreConfig
	executor Executor
}

// NewWorkerCore creates a new worker core instance
func NewWorkerCore(executor Executor, config WorkerCoreConfig) WorkerCore {
	if config.ActivityTimeout <= 0 {
		config.ActivityTimeout = time.Minute
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	return &workerCore{
		executor: executor,
		config:   config,
	}
}

// IdentityUsageReset runs on the first of every month. The period is taken from the
// workflow clock so a late cron firing still resets the month it was scheduled for.
func (w *workerCore) IdentityUsageReset(ctx workflow.Context) (*IdentityResetResult, error) {
	period := workflow.Now(ctx).UTC().Format("2006-01")
	logger.InfoWf(ctx, "Starting identity usage reset", zap.String("period", period))

	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    w.config.MaxAttempts,
		},
	})

	var result IdentityResetResult
	err := workflow.ExecuteActivity(activityCtx, w.executor.ResetIdentityUsage, period).Get(activityCtx, &result)
	if err != nil {
		logger.ErrorWf(ctx, err, zap.String("period", period))
		return nil, err
	}

	logger.InfoWf(ctx, "Identity usage reset finished",
		zap.String("period", result.Period),
		zap.Int64("identities", result.Identities),
		zap.Bool("skipped", result.Skipped),
	)
	return &result, nil
}
