package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/identity"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/messaging"
	"github.com/feral-file/ff-acquirer/internal/pattern"
	"github.com/feral-file/ff-acquirer/internal/platform"
	"github.com/feral-file/ff-acquirer/internal/store"
	"github.com/feral-file/ff-acquirer/internal/transfer"
)

// ErrEngineStopped is returned when scheduling on an engine that was shut down
var ErrEngineStopped = errors.New("engine stopped")

// Engine runs acquisitions against the platform adapters
//
//go:generate mockgen -source=engine.go -destination=../mocks/engine.go -package=mocks -mock_names=Engine=MockEngine
type Engine interface {
	// Acquire books a reservation now, retrying transient failures within the request's budget.
	// The result is always non-nil; the error is the classified failure, nil on success.
	Acquire(ctx context.Context, req domain.AcquisitionRequest) (*domain.AcquisitionResult, error)

	// ExecuteAtDropTime waits for the drop instant and bursts single-attempt acquisitions
	// until one succeeds, the burst ceiling is reached or the execution is canceled.
	ExecuteAtDropTime(ctx context.Context, req domain.AcquisitionRequest, drop domain.DropTimeConfig) (*domain.AcquisitionResult, error)

	// Schedule runs ExecuteAtDropTime in the background and returns its handle
	Schedule(ctx context.Context, req domain.AcquisitionRequest, drop domain.DropTimeConfig) (*Execution, error)

	// Cancel stops a drop-time execution before its next iteration.
	// It returns false for unknown or finished executions.
	Cancel(id string) bool

	// Status returns a snapshot of a drop-time execution
	Status(id string) (*Execution, bool)

	// Shutdown cancels every execution and waits for running bursts to stop
	Shutdown()
}

type engine struct {
	cfg       Config
	registry  *platform.Registry
	pool      identity.Pool
	learner   pattern.Learner
	transfers transfer.Service
	publisher messaging.Publisher
	clock     adapter.Clock

	workers pond.Pool

	mu         sync.Mutex
	executions map[string]*execution
	stopped    bool
}

// New creates an acquisition engine
func New(
	cfg Config,
	registry *platform.Registry,
	pool identity.Pool,
	learner pattern.Learner,
	transfers transfer.Service,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Engine {
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}

	return &engine{
		cfg:        cfg,
		registry:   registry,
		pool:       pool,
		learner:    learner,
		transfers:  transfers,
		publisher:  publisher,
		clock:      clock,
		workers:    pond.NewPool(cfg.MaxConcurrentDrops),
		executions: make(map[string]*execution),
	}
}

// acquireOptions tunes one run of the acquisition loop
type acquireOptions struct {
	mode  domain.AcquisitionMode
	token *CancelToken
	// record logs the attempt and publishes the result event
	record bool
}

func (e *engine) Acquire(ctx context.Context, req domain.AcquisitionRequest) (*domain.AcquisitionResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return e.acquire(ctx, req, acquireOptions{mode: domain.AcquisitionModeImmediate, record: true})
}

func (e *engine) acquire(ctx context.Context, req domain.AcquisitionRequest, opts acquireOptions) (*domain.AcquisitionResult, error) {
	start := e.clock.Now()
	result := &domain.AcquisitionResult{
		RequestID: req.ID,
		Platform:  req.Platform,
		VenueRef:  req.VenueRef,
		Mode:      opts.mode,
	}

	booking, ident, err := e.run(ctx, req, opts, result)

	result.Duration = e.clock.Since(start)
	result.CompletedAt = e.clock.Now()

	if err != nil {
		acqErr := domain.Classify(err, req.Platform)
		result.ErrorKind = acqErr.Kind
		result.ErrorMessage = acqErr.Error()

		logger.WarnCtx(ctx, "Acquisition failed",
			zap.String("requestID", req.ID),
			zap.String("platform", req.Platform.String()),
			zap.String("venue", req.VenueRef),
			zap.String("kind", string(acqErr.Kind)),
			zap.Int("attempts", result.Attempts),
			zap.Duration("duration", result.Duration),
			zap.Error(err),
		)

		if opts.record {
			e.recordOutcome(ctx, req, result, result.CompletedAt)
		}
		return result, acqErr
	}

	bookedTime := booking.BookedTime
	result.Success = true
	result.ConfirmationCode = booking.ConfirmationCode
	result.BookedTime = &bookedTime
	result.IdentityID = ident.ID

	e.commit(ctx, req, ident, booking, result)

	logger.InfoCtx(ctx, "Acquisition succeeded",
		zap.String("requestID", req.ID),
		zap.String("platform", req.Platform.String()),
		zap.String("venue", req.VenueRef),
		zap.String("identityID", ident.ID),
		zap.String("confirmation", booking.ConfirmationCode),
		zap.Int("attempts", result.Attempts),
		zap.Duration("duration", result.Duration),
	)

	if opts.record {
		e.recordOutcome(ctx, req, result, result.CompletedAt)
	}
	return result, nil
}

// run resolves the adapter and identity, then loops find+book within the retry budget
func (e *engine) run(ctx context.Context, req domain.AcquisitionRequest, opts acquireOptions, result *domain.AcquisitionResult) (*domain.Booking, *domain.Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	adp, err := e.registry.Get(req.Platform)
	if err != nil {
		return nil, nil, err
	}

	if req.Guest != nil && !adp.SupportsGuestOverride() {
		return nil, nil, domain.NewError(domain.ErrorKindPermanent, req.Platform, "platform does not support booking under a guest name", nil)
	}

	ident, err := e.resolveIdentity(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	result.IdentityID = ident.ID

	if status := adp.CheckReady(ident); !status.Ready {
		return nil, ident, domain.NewError(domain.ErrorKindConfiguration, req.Platform,
			fmt.Sprintf("identity %s is missing credentials: %s", ident.ID, strings.Join(status.Missing, ", ")), nil)
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = e.cfg.MaxRetries
	}
	policy := retryPolicy(e.cfg, req.AggressiveMode)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := e.interrupted(ctx, opts.token); err != nil {
			if lastErr != nil {
				return nil, ident, fmt.Errorf("%w after %w", err, lastErr)
			}
			return nil, ident, err
		}

		result.Attempts = attempt
		booking, err := e.attempt(ctx, adp, ident, req)
		if err == nil {
			return booking, ident, nil
		}
		lastErr = err

		kind := domain.KindOf(err)
		if !kind.Retryable() || ctx.Err() != nil {
			break
		}
		if attempt == maxRetries {
			break
		}

		delay := nextDelay(policy)
		logger.DebugCtx(ctx, "Retrying acquisition",
			zap.String("requestID", req.ID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := e.wait(ctx, opts.token, delay); err != nil {
			return nil, ident, lastErr
		}
	}

	return nil, ident, lastErr
}

// attempt performs one find+book round, each call bounded by the call timeout
func (e *engine) attempt(ctx context.Context, adp platform.Adapter, ident *domain.Identity, req domain.AcquisitionRequest) (*domain.Booking, error) {
	findCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	slots, err := adp.FindSlots(findCtx, ident, req.VenueRef, req.TargetTime, req.PartySize)
	cancel()
	if err != nil {
		return nil, domain.Classify(err, req.Platform)
	}
	if len(slots) == 0 {
		return nil, domain.NewError(domain.ErrorKindNoAvailability, req.Platform, "no slots available", nil)
	}

	slot, ok := platform.SelectSlot(slots, req.TargetTime, req.TimeFlexibilityMinutes, req.PartySize, req.AllowEarliestFallback)
	if !ok {
		return nil, domain.NewError(domain.ErrorKindNoAvailability, req.Platform,
			fmt.Sprintf("no slot within %d minutes of %s", req.TimeFlexibilityMinutes, req.TargetTime.Format(time.RFC3339)), nil)
	}

	bookCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()
	booking, err := adp.Book(bookCtx, ident, slot, req.PartySize, req.Guest)
	if err != nil {
		return nil, domain.Classify(err, req.Platform)
	}
	if booking == nil || booking.ConfirmationCode == "" {
		return nil, domain.NewError(domain.ErrorKindPermanent, req.Platform, "booking returned without a confirmation", nil)
	}
	if booking.BookedTime.IsZero() {
		booking.BookedTime = slot.Time
	}
	return booking, nil
}

// resolveIdentity returns the requested identity or the least-used one with capacity
func (e *engine) resolveIdentity(ctx context.Context, req domain.AcquisitionRequest) (*domain.Identity, error) {
	if req.IdentityID == nil {
		ident, err := e.pool.SelectBest(ctx, req.Platform)
		if err != nil {
			return nil, domain.NewError(domain.ErrorKindTransient, req.Platform, "failed to select identity", err)
		}
		if ident == nil {
			return nil, domain.NewError(domain.ErrorKindNoIdentity, req.Platform, "no identity has remaining capacity", nil)
		}
		return ident, nil
	}

	id := *req.IdentityID
	ident, err := e.pool.Get(ctx, id)
	if err != nil {
		return nil, domain.NewError(domain.ErrorKindTransient, req.Platform, "failed to load identity "+id, err)
	}
	if ident == nil || !ident.Active {
		return nil, domain.NewError(domain.ErrorKindConfiguration, req.Platform, "identity "+id+" is unknown or inactive", nil)
	}
	if !ident.Credentials.Has(req.Platform) {
		return nil, domain.NewError(domain.ErrorKindConfiguration, req.Platform, "identity "+id+" has no credentials for the platform", nil)
	}
	if !ident.HasCapacity(req.Platform) {
		return nil, domain.NewError(domain.ErrorKindNoIdentity, req.Platform, "identity "+id+" reached its monthly limit", nil)
	}
	return ident, nil
}

// commit records usage and opens the transfer of a booked reservation.
// The reservation is held at this point, so failures are logged and never undo the success.
func (e *engine) commit(ctx context.Context, req domain.AcquisitionRequest, ident *domain.Identity, booking *domain.Booking, result *domain.AcquisitionResult) {
	if err := e.pool.RecordBooking(ctx, ident.ID, req.Platform); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record identity usage: %w", err),
			zap.String("requestID", req.ID),
			zap.String("identityID", ident.ID),
			zap.String("platform", req.Platform.String()),
		)
	}

	t, err := e.transfers.Create(ctx, store.CreateTransferInput{
		IdentityID:       ident.ID,
		Platform:         req.Platform,
		VenueRef:         req.VenueRef,
		ConfirmationCode: booking.ConfirmationCode,
		ReservationTime:  booking.BookedTime,
		PartySize:        req.PartySize,
		PortfolioItemID:  req.PortfolioItemID,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to create transfer: %w", err),
			zap.String("requestID", req.ID),
			zap.String("confirmation", booking.ConfirmationCode),
		)
		return
	}
	result.TransferID = t.ID
}

// recordOutcome feeds the attempt log and publishes the result event
func (e *engine) recordOutcome(ctx context.Context, req domain.AcquisitionRequest, result *domain.AcquisitionResult, observedAt time.Time) {
	if e.learner != nil {
		obs := pattern.ObservationFromResult(req, result, observedAt)
		if err := e.learner.RecordAttempt(ctx, obs); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("requestID", req.ID))
		}
	}

	event := domain.NewAcquisitionEvent(req, *result, e.clock.Now())
	if err := e.publisher.PublishAcquisitionEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish acquisition event: %w", err),
			zap.String("requestID", req.ID),
			zap.String("eventID", event.EventID),
		)
	}
}

// interrupted reports a cancellation of the token or the context
func (e *engine) interrupted(ctx context.Context, token *CancelToken) error {
	if token.Canceled() {
		return domain.NewError(domain.ErrorKindCanceled, "", "execution canceled", nil)
	}
	if err := ctx.Err(); err != nil {
		return domain.Classify(err, "")
	}
	return nil
}

// wait sleeps for d unless the token or the context fires first
func (e *engine) wait(ctx context.Context, token *CancelToken, d time.Duration) error {
	if d <= 0 {
		return e.interrupted(ctx, token)
	}

	select {
	case <-e.clock.After(d):
		return nil
	case <-token.Done():
		return domain.NewError(domain.ErrorKindCanceled, "", "execution canceled", nil)
	case <-ctx.Done():
		return domain.Classify(ctx.Err(), "")
	}
}
