package pattern

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/store"
)

// Observation is one finished acquisition as seen by the learner
type Observation struct {
	RequestID  string
	VenueRef   string
	Platform   domain.Platform
	IdentityID string
	Mode       domain.AcquisitionMode
	// TargetTime is the reservation time that was asked for
	TargetTime time.Time
	// AttemptedAt is the instant inventory was observed: the booking instant on success
	AttemptedAt time.Time
	Success     bool
	Result      *domain.AcquisitionResult
}

// ObservationFromResult builds an observation from an engine result
func ObservationFromResult(req domain.AcquisitionRequest, result *domain.AcquisitionResult, attemptedAt time.Time) Observation {
	return Observation{
		RequestID:   req.ID,
		VenueRef:    req.VenueRef,
		Platform:    req.Platform,
		IdentityID:  result.IdentityID,
		Mode:        result.Mode,
		TargetTime:  req.TargetTime,
		AttemptedAt: attemptedAt,
		Success:     result.Success,
		Result:      result,
	}
}

// Prediction is the expected drop instant for a target reservation
type Prediction struct {
	Pattern *domain.DropPattern `json:"pattern"`
	DropAt  time.Time           `json:"drop_at"`
}

// Learner keeps the attempt log and the drop patterns learned from it
//
//go:generate mockgen -source=learner.go -destination=../mocks/pattern_learner.go -package=mocks -mock_names=Learner=MockPatternLearner
type Learner interface {
	// RecordAttempt appends the observation to the attempt log and folds it into the venue's pattern
	RecordAttempt(ctx context.Context, obs Observation) error

	// GetPattern returns the pattern of a venue on a platform.
	// Without a platform, the most confident pattern of the venue is returned.
	GetPattern(ctx context.Context, venueRef string, platform *domain.Platform) (*domain.DropPattern, error)

	// PredictDrop estimates when inventory for targetTime is released, or nil when no pattern exists
	PredictDrop(ctx context.Context, venueRef string, platform domain.Platform, targetTime time.Time) (*Prediction, error)

	// ListPatterns lists patterns at or above a confidence
	ListPatterns(ctx context.Context, minConfidence int, limit int) ([]*domain.DropPattern, error)
}

type learner struct {
	store store.Store
}

// NewLearner creates a learner backed by the store
func NewLearner(st store.Store) Learner {
	return &learner{store: st}
}

func (l *learner) RecordAttempt(ctx context.Context, obs Observation) error {
	if err := l.store.CreateAcquisitionAttempt(ctx, attemptInput(obs)); err != nil {
		return fmt.Errorf("failed to log acquisition attempt: %w", err)
	}

	err := l.store.UpdateDropPattern(ctx, obs.VenueRef, obs.Platform, func(current *domain.DropPattern) *domain.DropPattern {
		if obs.Success {
			if current == nil {
				return domain.NewDropPattern(obs.VenueRef, obs.Platform, obs.TargetTime, obs.AttemptedAt)
			}
			current.ApplySuccess(obs.TargetTime, obs.AttemptedAt)
			return current
		}

		// Nothing is learned about a venue that never succeeded
		if current == nil {
			return nil
		}
		current.ApplyFailure()
		return current
	})
	if err != nil {
		return fmt.Errorf("failed to update drop pattern: %w", err)
	}

	logger.DebugCtx(ctx, "Recorded acquisition attempt",
		zap.String("venue", obs.VenueRef),
		zap.String("platform", obs.Platform.String()),
		zap.Bool("success", obs.Success),
	)
	return nil
}

func (l *learner) GetPattern(ctx context.Context, venueRef string, platform *domain.Platform) (*domain.DropPattern, error) {
	if platform != nil {
		row, err := l.store.GetDropPattern(ctx, venueRef, *platform)
		if err != nil {
			return nil, fmt.Errorf("failed to get drop pattern: %w", err)
		}
		if row == nil {
			return nil, nil
		}
		return row.ToDomain(), nil
	}

	rows, err := l.store.GetDropPatternsByVenue(ctx, venueRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get drop patterns: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// Rows come back most confident first
	return rows[0].ToDomain(), nil
}

func (l *learner) PredictDrop(ctx context.Context, venueRef string, platform domain.Platform, targetTime time.Time) (*Prediction, error) {
	p, err := l.GetPattern(ctx, venueRef, &platform)
	if err != nil || p == nil {
		return nil, err
	}
	return &Prediction{Pattern: p, DropAt: p.NextDropAt(targetTime)}, nil
}

func (l *learner) ListPatterns(ctx context.Context, minConfidence int, limit int) ([]*domain.DropPattern, error) {
	rows, err := l.store.ListDropPatterns(ctx, minConfidence, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drop patterns: %w", err)
	}

	patterns := make([]*domain.DropPattern, 0, len(rows))
	for _, row := range rows {
		patterns = append(patterns, row.ToDomain())
	}
	return patterns, nil
}

func attemptInput(obs Observation) store.CreateAcquisitionAttemptInput {
	input := store.CreateAcquisitionAttemptInput{
		RequestID:   obs.RequestID,
		VenueRef:    obs.VenueRef,
		Platform:    obs.Platform,
		Mode:        obs.Mode,
		TargetTime:  obs.TargetTime,
		AttemptedAt: obs.AttemptedAt,
		Success:     obs.Success,
		Attempts:    1,
	}
	if input.Mode == "" {
		input.Mode = domain.AcquisitionModeImmediate
	}
	if obs.IdentityID != "" {
		id := obs.IdentityID
		input.IdentityID = &id
	}

	if r := obs.Result; r != nil {
		input.Attempts = r.Attempts
		input.DurationMs = r.Duration.Milliseconds()
		input.BookedTime = r.BookedTime
		if r.ConfirmationCode != "" {
			code := r.ConfirmationCode
			input.ConfirmationCode = &code
		}
		if r.ErrorKind != "" {
			kind := string(r.ErrorKind)
			input.ErrorKind = &kind
		}
		if r.ErrorMessage != "" {
			msg := r.ErrorMessage
			input.ErrorMessage = &msg
		}
		if raw, err := json.Marshal(r); err == nil {
			input.Raw = raw
		}
	}

	return input
}
