package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
)

// Publisher defines the interface for publishing acquisition results to a message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishAcquisitionEvent publishes the result of a finished acquisition
	PublishAcquisitionEvent(ctx context.Context, event *domain.AcquisitionEvent) error
	// Close closes the connection
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that only logs events
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishAcquisitionEvent(ctx context.Context, event *domain.AcquisitionEvent) error {
	logger.DebugCtx(ctx, "Dropping acquisition event, no notifier configured",
		zap.String("eventID", event.EventID),
		zap.String("type", string(event.Type)),
	)
	return nil
}

func (noopPublisher) Close() {}
