package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
)

// ExecutionState is the lifecycle stage of a drop-time execution
type ExecutionState string

const (
	ExecutionPending   ExecutionState = "pending"
	ExecutionRunning   ExecutionState = "running"
	ExecutionSucceeded ExecutionState = "succeeded"
	ExecutionFailed    ExecutionState = "failed"
	ExecutionCanceled  ExecutionState = "canceled"
)

// Finished reports whether the execution reached a final state
func (s ExecutionState) Finished() bool {
	return s == ExecutionSucceeded || s == ExecutionFailed || s == ExecutionCanceled
}

// Execution is a snapshot of a drop-time execution
type Execution struct {
	ID          string                    `json:"id"`
	Request     domain.AcquisitionRequest `json:"request"`
	Drop        domain.DropTimeConfig     `json:"drop"`
	State       ExecutionState            `json:"state"`
	Result      *domain.AcquisitionResult `json:"result,omitempty"`
	ScheduledAt time.Time                 `json:"scheduled_at"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	FinishedAt  *time.Time                `json:"finished_at,omitempty"`
}

type execution struct {
	token *CancelToken
	// snapshot is guarded by engine.mu
	snapshot Execution
}

func (e *engine) ExecuteAtDropTime(ctx context.Context, req domain.AcquisitionRequest, drop domain.DropTimeConfig) (*domain.AcquisitionResult, error) {
	exec, err := e.register(req, drop)
	if err != nil {
		return e.rejected(req, err), err
	}
	return e.executeAtDropTime(ctx, exec)
}

func (e *engine) Schedule(ctx context.Context, req domain.AcquisitionRequest, drop domain.DropTimeConfig) (*Execution, error) {
	exec, err := e.register(req, drop)
	if err != nil {
		return nil, err
	}

	// The execution outlives the scheduling call but keeps its values
	runCtx := context.WithoutCancel(ctx)
	req = exec.snapshot.Request
	wakeAt := exec.snapshot.Drop.DropAt.Add(-exec.snapshot.Drop.PreWarmLead)
	snapshot := exec.snapshot

	go func() {
		// Bursts only occupy a worker from the pre-warm instant on
		if err := e.sleepUntil(runCtx, exec.token, wakeAt); err != nil {
			e.finish(exec, e.rejected(req, err), err)
			return
		}

		task := e.workers.Submit(func() {
			_, _ = e.executeAtDropTime(runCtx, exec)
		})
		if err := task.Wait(); errors.Is(err, pond.ErrPoolStopped) {
			stopped := domain.NewError(domain.ErrorKindCanceled, req.Platform, "engine stopped before the burst", err)
			e.finish(exec, e.rejected(req, stopped), stopped)
		}
	}()

	logger.InfoCtx(ctx, "Scheduled drop-time acquisition",
		zap.String("executionID", snapshot.ID),
		zap.String("platform", snapshot.Request.Platform.String()),
		zap.String("venue", snapshot.Request.VenueRef),
		zap.Time("dropAt", snapshot.Drop.DropAt),
	)
	return &snapshot, nil
}

func (e *engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.executions[id]
	if !ok || exec.snapshot.State.Finished() {
		return false
	}
	exec.token.Cancel()

	logger.Info("Canceled drop-time acquisition", zap.String("executionID", id))
	return true
}

func (e *engine) Status(id string) (*Execution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.executions[id]
	if !ok {
		return nil, false
	}
	snapshot := exec.snapshot
	return &snapshot, true
}

func (e *engine) Shutdown() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	for _, exec := range e.executions {
		exec.token.Cancel()
	}
	e.mu.Unlock()

	e.workers.StopAndWait()
}

// register creates the execution entry of a request, keyed by the request id
func (e *engine) register(req domain.AcquisitionRequest, drop domain.DropTimeConfig) (*execution, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return nil, ErrEngineStopped
	}
	if existing, ok := e.executions[req.ID]; ok && !existing.snapshot.State.Finished() {
		return nil, domain.NewError(domain.ErrorKindConfiguration, req.Platform, "execution "+req.ID+" is already in progress", nil)
	}

	exec := &execution{
		token: NewCancelToken(),
		snapshot: Execution{
			ID:          req.ID,
			Request:     req,
			Drop:        e.cfg.dropConfig(drop),
			State:       ExecutionPending,
			ScheduledAt: e.clock.Now(),
		},
	}
	e.executions[req.ID] = exec
	return exec, nil
}

// executeAtDropTime pre-warms ahead of the drop, then bursts single attempts until the ceiling
func (e *engine) executeAtDropTime(ctx context.Context, exec *execution) (*domain.AcquisitionResult, error) {
	e.mu.Lock()
	req := exec.snapshot.Request
	drop := exec.snapshot.Drop
	e.mu.Unlock()
	token := exec.token

	if err := e.sleepUntil(ctx, token, drop.DropAt.Add(-drop.PreWarmLead)); err != nil {
		return e.finish(exec, e.rejected(req, err), err)
	}

	e.markRunning(exec)
	e.preWarm(ctx, req)

	if err := e.sleepUntil(ctx, token, drop.DropAt); err != nil {
		return e.finish(exec, e.rejected(req, err), err)
	}

	burstStart := e.clock.Now()
	inner := req
	inner.MaxRetries = 1

	result := &domain.AcquisitionResult{
		RequestID: req.ID,
		Platform:  req.Platform,
		VenueRef:  req.VenueRef,
		Mode:      domain.AcquisitionModeDrop,
	}

	var (
		attempts int
		lastErr  error
		finalErr error
	)
	for {
		if err := e.interrupted(ctx, token); err != nil {
			finalErr = err
			break
		}
		if e.clock.Since(burstStart) >= drop.BurstWindow {
			finalErr = domain.NewError(domain.ErrorKindTimeout, req.Platform,
				fmt.Sprintf("burst ceiling of %s reached after %d attempts", drop.BurstWindow, attempts), lastErr)
			break
		}

		attemptResult, err := e.acquire(ctx, inner, acquireOptions{mode: domain.AcquisitionModeDrop, token: token})
		attempts += attemptResult.Attempts
		if attemptResult.IdentityID != "" {
			result.IdentityID = attemptResult.IdentityID
		}
		if err == nil {
			result.Success = true
			result.ConfirmationCode = attemptResult.ConfirmationCode
			result.BookedTime = attemptResult.BookedTime
			result.TransferID = attemptResult.TransferID
			break
		}

		lastErr = err
		kind := domain.KindOf(err)
		if kind.Fatal() || kind == domain.ErrorKindCanceled {
			finalErr = err
			break
		}

		if err := e.wait(ctx, token, drop.BurstInterval); err != nil {
			finalErr = err
			break
		}
	}

	result.Attempts = attempts
	result.CompletedAt = e.clock.Now()
	result.Duration = result.CompletedAt.Sub(burstStart)

	if finalErr != nil {
		acqErr := domain.Classify(finalErr, req.Platform)
		result.ErrorKind = acqErr.Kind
		result.ErrorMessage = acqErr.Error()
		finalErr = acqErr
	}

	// One attempt record per burst; a success confirms the pattern at the booking instant
	e.recordOutcome(ctx, req, result, result.CompletedAt)

	logger.InfoCtx(ctx, "Drop-time burst finished",
		zap.String("executionID", req.ID),
		zap.String("platform", req.Platform.String()),
		zap.String("venue", req.VenueRef),
		zap.Bool("success", result.Success),
		zap.Int("attempts", attempts),
		zap.Duration("duration", result.Duration),
	)

	return e.finish(exec, result, finalErr)
}

// preWarm fetches availability once to open connections and sessions; failures are only logged
func (e *engine) preWarm(ctx context.Context, req domain.AcquisitionRequest) {
	adp, err := e.registry.Get(req.Platform)
	if err != nil {
		return
	}
	ident, err := e.resolveIdentity(ctx, req)
	if err != nil {
		logger.WarnCtx(ctx, "Skipping pre-warm", zap.String("executionID", req.ID), zap.Error(err))
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	slots, err := adp.FindSlots(callCtx, ident, req.VenueRef, req.TargetTime, req.PartySize)
	if err != nil {
		logger.WarnCtx(ctx, "Pre-warm failed", zap.String("executionID", req.ID), zap.Error(err))
		return
	}
	logger.DebugCtx(ctx, "Pre-warm done", zap.String("executionID", req.ID), zap.Int("slots", len(slots)))
}

// sleepUntil waits for the instant unless canceled; a past or zero instant returns at once
func (e *engine) sleepUntil(ctx context.Context, token *CancelToken, at time.Time) error {
	if at.IsZero() {
		return e.interrupted(ctx, token)
	}
	return e.wait(ctx, token, e.clock.Until(at))
}

func (e *engine) markRunning(exec *execution) {
	now := e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	exec.snapshot.State = ExecutionRunning
	exec.snapshot.StartedAt = &now
}

// finish stores the final state of an execution
func (e *engine) finish(exec *execution, result *domain.AcquisitionResult, err error) (*domain.AcquisitionResult, error) {
	now := e.clock.Now()

	state := ExecutionSucceeded
	switch {
	case err != nil && domain.KindOf(err) == domain.ErrorKindCanceled:
		state = ExecutionCanceled
	case err != nil:
		state = ExecutionFailed
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	exec.snapshot.State = state
	exec.snapshot.Result = result
	exec.snapshot.FinishedAt = &now
	return result, err
}

// rejected builds the result of an execution that never reached the burst
func (e *engine) rejected(req domain.AcquisitionRequest, err error) *domain.AcquisitionResult {
	acqErr := domain.Classify(err, req.Platform)
	return &domain.AcquisitionResult{
		RequestID:    req.ID,
		Platform:     req.Platform,
		VenueRef:     req.VenueRef,
		Mode:         domain.AcquisitionModeDrop,
		ErrorKind:    acqErr.Kind,
		ErrorMessage: acqErr.Error(),
		CompletedAt:  e.clock.Now(),
	}
}
