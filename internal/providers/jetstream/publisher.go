package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/messaging"
)

const (
	DEFAULT_SUBJECT_PREFIX  = "acquisitions"
	DEFAULT_PUBLISH_RETRIES = 3
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// PublishRetries bounds retries of a failed publish
	PublishRetries uint64
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
	retries       uint64
	json          adapter.JSON
}

// NewPublisher connects to NATS and makes sure the acquisitions stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = DEFAULT_SUBJECT_PREFIX
	}

	if cfg.StreamName != "" {
		err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     cfg.StreamName,
			Subjects: []string{prefix + ".>"},
			Storage:  jetstream.FileStorage,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
		}
	}

	retries := cfg.PublishRetries
	if retries == 0 {
		retries = DEFAULT_PUBLISH_RETRIES
	}

	return &publisher{
		nc:            nc,
		js:            js,
		subjectPrefix: prefix,
		retries:       retries,
		json:          jsonAdapter,
	}, nil
}

// PublishAcquisitionEvent publishes an acquisition result to NATS JetStream
func (p *publisher) PublishAcquisitionEvent(ctx context.Context, event *domain.AcquisitionEvent) error {
	logger.DebugCtx(ctx, "Publishing Nats event", zap.String("eventID", event.EventID))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.buildSubject(event)

	// The event id doubles as the JetStream dedup key, so retries never duplicate
	operation := func() error {
		_, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.EventID))
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, p.retries), ctx))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// buildSubject constructs the NATS subject of an event
func (p *publisher) buildSubject(event *domain.AcquisitionEvent) string {
	// Format: {prefix}.{platform}.{outcome}
	// e.g., acquisitions.resy.succeeded, acquisitions.tock.failed
	return fmt.Sprintf("%s.%s.%s", p.subjectPrefix, event.Platform, event.Outcome())
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
