package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/messaging"
)

const (
	DEFAULT_EXCHANGE        = "acquisitions"
	DEFAULT_PUBLISH_TIMEOUT = 5 * time.Second
)

// ErrNacked is returned when the broker refuses a message
var ErrNacked = errors.New("message nacked by broker")

// Config holds the configuration for the RabbitMQ publisher
type Config struct {
	URL            string
	Exchange       string
	PublishTimeout time.Duration
}

type publisher struct {
	mu       sync.Mutex
	conn     adapter.AMQPConnection
	ch       adapter.AMQPChannel
	exchange string
	timeout  time.Duration
	json     adapter.JSON
	clock    adapter.Clock
}

// NewPublisher dials RabbitMQ, declares the durable topic exchange and enables publisher confirms
func NewPublisher(cfg Config, dialer adapter.AMQPDialer, jsonAdapter adapter.JSON, clock adapter.Clock) (messaging.Publisher, error) {
	conn, err := dialer.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DEFAULT_EXCHANGE
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DEFAULT_PUBLISH_TIMEOUT
	}

	p := &publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		timeout:  timeout,
		json:     jsonAdapter,
		clock:    clock,
	}

	closed := conn.NotifyClose()
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			logger.Error(amqpErr, zap.String("message", "RabbitMQ connection closed"))
		}
	}()

	return p, nil
}

// PublishAcquisitionEvent publishes a persistent message and waits for the broker confirm
func (p *publisher) PublishAcquisitionEvent(ctx context.Context, event *domain.AcquisitionEvent) error {
	body, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := routingKey(event)
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         string(event.Type),
		Timestamp:    p.clock.Now().UTC(),
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	confirm, err := p.ch.Publish(ctx, p.exchange, key, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to confirm event: %w", err)
	}
	if !acked {
		return ErrNacked
	}

	logger.DebugCtx(ctx, "Published RabbitMQ event",
		zap.String("eventID", event.EventID),
		zap.String("routingKey", key),
	)
	return nil
}

// routingKey returns acquisition.succeeded or acquisition.failed
func routingKey(event *domain.AcquisitionEvent) string {
	return "acquisition." + event.Outcome()
}

// Close closes the channel and the connection
func (p *publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		_ = p.conn.Close()
	}
}
