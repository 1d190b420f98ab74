package executor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/api/shared/constants"
	"github.com/feral-file/ff-acquirer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-acquirer/internal/api/shared/errors"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/engine"
	"github.com/feral-file/ff-acquirer/internal/identity"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/pattern"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/transfer"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// Acquire books a reservation now. Acquisition failures are reported in the result;
	// only invalid requests return an error.
	Acquire(ctx context.Context, req dto.AcquireRequest) (*domain.AcquisitionResult, error)

	// Schedule registers a drop-time acquisition, predicting the drop instant when none is given
	Schedule(ctx context.Context, req dto.ScheduleRequest) (*engine.Execution, error)

	// GetSchedule returns a drop-time execution, or nil when unknown
	GetSchedule(ctx context.Context, id string) (*engine.Execution, error)

	// CancelSchedule cancels a drop-time execution
	CancelSchedule(ctx context.Context, id string) (*dto.CancelScheduleResponse, error)

	// GetPattern returns the drop pattern of a venue, the most confident one when platform is nil
	GetPattern(ctx context.Context, venueRef string, platform *domain.Platform) (*dto.PatternResponse, error)

	// ListPatterns lists drop patterns at or above a confidence
	ListPatterns(ctx context.Context, minConfidence int, limit int) (*dto.PatternListResponse, error)

	// ListTransfers lists transfers newest first
	ListTransfers(ctx context.Context, status *domain.TransferStatus, limit, offset int) (*dto.TransferListResponse, error)

	// GetTransfer returns a transfer, or nil when unknown
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)

	// TransitionTransfer moves a transfer to its next status
	TransitionTransfer(ctx context.Context, id string, req dto.TransitionRequest) (*domain.Transfer, error)

	// CreateWatch registers a reservation for the drop watcher
	CreateWatch(ctx context.Context, req dto.CreateWatchRequest) (*dto.WatchResponse, error)

	// GetWatch returns a watch, or nil when unknown
	GetWatch(ctx context.Context, id string) (*dto.WatchResponse, error)

	// CreateIdentity adds an identity to the pool
	CreateIdentity(ctx context.Context, req dto.CreateIdentityRequest) (*domain.Identity, error)

	// DeactivateIdentity removes an identity from selection
	DeactivateIdentity(ctx context.Context, id string) error

	// ResetIdentityUsage zeroes every identity usage counter
	ResetIdentityUsage(ctx context.Context) (*dto.IdentityResetResponse, error)
}

type executor struct {
	engine    engine.Engine
	learner   pattern.Learner
	transfers transfer.Service
	pool      identity.Pool
	store     store.Store
	clock     adapter.Clock
}

// NewExecutor creates the API executor
func NewExecutor(
	eng engine.Engine,
	learner pattern.Learner,
	transfers transfer.Service,
	pool identity.Pool,
	st store.Store,
	clock adapter.Clock,
) Executor {
	return &executor{
		engine:    eng,
		learner:   learner,
		transfers: transfers,
		pool:      pool,
		store:     st,
		clock:     clock,
	}
}

func (e *executor) Acquire(ctx context.Context, req dto.AcquireRequest) (*domain.AcquisitionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := e.engine.Acquire(ctx, req.ToDomain())
	if err != nil && domain.KindOf(err) == domain.ErrorKindConfiguration {
		return nil, apierrors.FromDomainError("Invalid acquisition request", err)
	}
	return result, nil
}

func (e *executor) Schedule(ctx context.Context, req dto.ScheduleRequest) (*engine.Execution, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acquisition := req.ToDomain()
	dropAt := e.clock.Now()
	if req.DropAt != nil {
		dropAt = *req.DropAt
	} else {
		prediction, err := e.learner.PredictDrop(ctx, acquisition.VenueRef, acquisition.Platform, acquisition.TargetTime)
		if err != nil {
			return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to predict drop: %v", err))
		}
		if prediction == nil {
			return nil, apierrors.NewNotFoundError("No drop pattern learned for venue", "provide drop_at explicitly")
		}
		// A drop already in the past bursts right away
		if prediction.DropAt.After(dropAt) {
			dropAt = prediction.DropAt
		}
	}

	exec, err := e.engine.Schedule(ctx, acquisition, req.DropConfig(dropAt))
	if err != nil {
		if errors.Is(err, engine.ErrEngineStopped) {
			return nil, apierrors.NewServiceUnavailableError("Engine is shutting down")
		}
		if domain.KindOf(err) == domain.ErrorKindConfiguration && acquisition.ID != "" {
			if _, exists := e.engine.Status(acquisition.ID); exists {
				return nil, apierrors.NewConflictError("Execution already scheduled", err.Error())
			}
		}
		return nil, apierrors.FromDomainError("Failed to schedule acquisition", err)
	}

	logger.InfoCtx(ctx, "Scheduled drop-time acquisition",
		zap.String("executionID", exec.ID),
		zap.String("platform", acquisition.Platform.String()),
		zap.String("venue", acquisition.VenueRef),
		zap.Time("dropAt", exec.Drop.DropAt),
	)
	return exec, nil
}

func (e *executor) GetSchedule(_ context.Context, id string) (*engine.Execution, error) {
	exec, ok := e.engine.Status(id)
	if !ok {
		return nil, nil
	}
	return exec, nil
}

func (e *executor) CancelSchedule(ctx context.Context, id string) (*dto.CancelScheduleResponse, error) {
	if _, ok := e.engine.Status(id); !ok {
		return nil, apierrors.NewNotFoundError("Execution not found")
	}

	canceled := e.engine.Cancel(id)
	logger.InfoCtx(ctx, "Cancel requested for drop-time acquisition",
		zap.String("executionID", id),
		zap.Bool("canceled", canceled),
	)
	return &dto.CancelScheduleResponse{ID: id, Canceled: canceled}, nil
}

func (e *executor) GetPattern(ctx context.Context, venueRef string, platform *domain.Platform) (*dto.PatternResponse, error) {
	p, err := e.learner.GetPattern(ctx, venueRef, platform)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get drop pattern: %v", err))
	}
	if p == nil {
		return nil, nil
	}
	return dto.NewPatternResponse(p), nil
}

func (e *executor) ListPatterns(ctx context.Context, minConfidence int, limit int) (*dto.PatternListResponse, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_PATTERNS_LIMIT
	}
	limit = min(limit, constants.MAX_PAGE_SIZE)

	patterns, err := e.learner.ListPatterns(ctx, minConfidence, limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list drop patterns: %v", err))
	}

	resp := &dto.PatternListResponse{Patterns: make([]*dto.PatternResponse, 0, len(patterns))}
	for _, p := range patterns {
		resp.Patterns = append(resp.Patterns, dto.NewPatternResponse(p))
	}
	return resp, nil
}

func (e *executor) ListTransfers(ctx context.Context, status *domain.TransferStatus, limit, offset int) (*dto.TransferListResponse, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_TRANSFERS_LIMIT
	}
	limit = min(limit, constants.MAX_PAGE_SIZE)
	offset = max(offset, 0)

	transfers, err := e.transfers.List(ctx, status, limit, offset)
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindConfiguration {
			return nil, apierrors.NewValidationError(err.Error())
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list transfers: %v", err))
	}
	if transfers == nil {
		transfers = []*domain.Transfer{}
	}
	return &dto.TransferListResponse{Transfers: transfers, Limit: limit, Offset: offset}, nil
}

func (e *executor) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	t, err := e.transfers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, transfer.ErrNotFound) {
			return nil, nil
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get transfer: %v", err))
	}
	return t, nil
}

func (e *executor) TransitionTransfer(ctx context.Context, id string, req dto.TransitionRequest) (*domain.Transfer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := e.transfers.Advance(ctx, id, req.Status, req.Details())
	if err != nil {
		if errors.Is(err, transfer.ErrNotFound) {
			return nil, apierrors.NewNotFoundError("Transfer not found")
		}
		switch domain.KindOf(err) {
		case domain.ErrorKindInvalidTransition, domain.ErrorKindConfiguration:
			return nil, apierrors.FromDomainError("Transition rejected", err)
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update transfer: %v", err))
	}
	return t, nil
}

func (e *executor) CreateWatch(ctx context.Context, req dto.CreateWatchRequest) (*dto.WatchResponse, error) {
	if err := req.Validate(e.clock.Now()); err != nil {
		return nil, err
	}

	watch, err := e.store.CreateWatch(ctx, req.ToStoreInput())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create watch: %v", err))
	}
	return dto.MapWatchToDTO(watch), nil
}

func (e *executor) GetWatch(ctx context.Context, id string) (*dto.WatchResponse, error) {
	watch, err := e.store.GetWatchByID(ctx, id)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get watch: %v", err))
	}
	if watch == nil {
		return nil, nil
	}
	return dto.MapWatchToDTO(watch), nil
}

func (e *executor) CreateIdentity(ctx context.Context, req dto.CreateIdentityRequest) (*domain.Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := e.pool.Create(ctx, req.ToStoreInput())
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindConfiguration {
			return nil, apierrors.NewValidationError(err.Error())
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create identity: %v", err))
	}
	return created, nil
}

func (e *executor) DeactivateIdentity(ctx context.Context, id string) error {
	if err := e.pool.Deactivate(ctx, id); err != nil {
		if errors.Is(err, store.ErrIdentityNotFound) {
			return apierrors.NewNotFoundError("Identity not found")
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to deactivate identity: %v", err))
	}
	return nil
}

func (e *executor) ResetIdentityUsage(ctx context.Context) (*dto.IdentityResetResponse, error) {
	touched, err := e.pool.ResetMonthly(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to reset identity usage: %v", err))
	}
	return &dto.IdentityResetResponse{Identities: touched}, nil
}
