package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/messaging"
)

const DEFAULT_DELIVERY_RETRIES = 3

// Config holds the webhook endpoint receiving acquisition events
type Config struct {
	URL    string
	Secret string
	// Retries bounds redeliveries of a failed request
	Retries uint64
}

type publisher struct {
	url     string
	secret  string
	retries uint64
	http    adapter.HTTPClient
	json    adapter.JSON
	clock   adapter.Clock
}

// NewPublisher creates a publisher that POSTs signed acquisition events to a single endpoint
func NewPublisher(cfg Config, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, clock adapter.Clock) (messaging.Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}

	retries := cfg.Retries
	if retries == 0 {
		retries = DEFAULT_DELIVERY_RETRIES
	}

	return &publisher{
		url:     cfg.URL,
		secret:  cfg.Secret,
		retries: retries,
		http:    httpClient,
		json:    jsonAdapter,
		clock:   clock,
	}, nil
}

// PublishAcquisitionEvent delivers the event, retrying server errors and throttling
func (p *publisher) PublishAcquisitionEvent(ctx context.Context, event *domain.AcquisitionEvent) error {
	body, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++

		// Re-signed per attempt so the timestamp stays fresh
		headers := SignedHeaders(p.secret, p.clock.Now().Unix(), event.EventID, body)
		_, err := p.http.PostBytes(ctx, p.url, headers, body)
		if err == nil {
			return nil
		}

		logger.WarnCtx(ctx, "Webhook delivery failed",
			zap.String("eventID", event.EventID),
			zap.Int("attempt", attempt),
			zap.Error(err))

		var statusErr *adapter.HTTPStatusError
		if errors.As(err, &statusErr) && !retryableStatus(statusErr.StatusCode) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, p.retries), ctx)); err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}

	return nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= http.StatusInternalServerError
}

// Close is a no-op; deliveries hold no connection
func (p *publisher) Close() {}
