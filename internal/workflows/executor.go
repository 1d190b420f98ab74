package workflows

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/identity"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/store"
)

// IDENTITY_RESET_KEY_PREFIX prefixes the key-value marker written once a month has been reset
const IDENTITY_RESET_KEY_PREFIX = "identity_usage_reset:"

// IdentityResetResult describes one run of the monthly identity reset
type IdentityResetResult struct {
	// Period is the month the reset applies to, formatted as YYYY-MM
	Period string `json:"period"`
	// Identities is the number of identities whose counters were zeroed
	Identities int64 `json:"identities"`
	// Skipped is true when the period had already been reset
	Skipped bool `json:"skipped"`
}

// Executor defines the interface for executing activities
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor_core.go -package=mocks -mock_names=Executor=MockCoreExecutor
type Executor interface {
	// ResetIdentityUsage zeroes identity usage counters once per period
	ResetIdentityUsage(ctx context.Context, period string) (*IdentityResetResult, error)
}

type executor struct {
	store store.Store
	pool  identity.Pool
	clock adapter.Clock
}

// NewExecutor creates a new executor instance
func NewExecutor(st store.Store, pool identity.Pool, clock adapter.Clock) Executor {
	return &executor{
		store: st,
		pool:  pool,
		clock: clock,
	}
}

// IdentityResetKey returns the marker key of a period
func IdentityResetKey(period string) string {
	return IDENTITY_RESET_KEY_PREFIX + period
}

func (e *executor) ResetIdentityUsage(ctx context.Context, period string) (*IdentityResetResult, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, fmt.Errorf("invalid reset period %q: %w", period, err)
	}

	key := IdentityResetKey(period)
	doneAt, err := e.store.GetKeyValue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read reset marker: %w", err)
	}
	if doneAt != "" {
		logger.InfoCtx(ctx, "Identity usage already reset for period",
			zap.String("period", period),
			zap.String("resetAt", doneAt),
		)
		return &IdentityResetResult{Period: period, Skipped: true}, nil
	}

	touched, err := e.pool.ResetMonthly(ctx)
	if err != nil {
		return nil, err
	}

	// A crash between the reset and the marker only repeats an idempotent reset
	if err := e.store.SetKeyValue(ctx, key, e.clock.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("failed to write reset marker: %w", err)
	}

	return &IdentityResetResult{Period: period, Identities: touched}, nil
}
