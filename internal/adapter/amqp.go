package adapter

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPConfirmation is a pending publisher confirm
type AMQPConfirmation interface {
	// WaitContext blocks until the broker acks or nacks the message
	WaitContext(ctx context.Context) (bool, error)
}

// AMQPChannel is the subset of *amqp.Channel used for publishing
//
//go:generate mockgen -source=amqp.go -destination=../mocks/amqp.go -package=mocks
type AMQPChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (AMQPConfirmation, error)
	Close() error
}

// AMQPConnection is the subset of *amqp.Connection used by publishers
type AMQPConnection interface {
	Channel() (AMQPChannel, error)
	NotifyClose() <-chan *amqp.Error
	Close() error
	IsClosed() bool
}

// AMQPDialer opens AMQP connections
type AMQPDialer interface {
	Dial(url string) (AMQPConnection, error)
}

// RealAMQPDialer implements AMQPDialer using amqp091-go
type RealAMQPDialer struct{}

// NewAMQPDialer creates a new real AMQP dialer
func NewAMQPDialer() AMQPDialer {
	return &RealAMQPDialer{}
}

func (d *RealAMQPDialer) Dial(url string) (AMQPConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{conn: conn}, nil
}

type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) Channel() (AMQPChannel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return &amqpChannel{ch: ch}, nil
}

func (c *amqpConnection) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (c *amqpConnection) Close() error {
	return c.conn.Close()
}

func (c *amqpConnection) IsClosed() bool {
	return c.conn.IsClosed()
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (c *amqpChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return c.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (c *amqpChannel) Confirm(noWait bool) error {
	return c.ch.Confirm(noWait)
}

func (c *amqpChannel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (AMQPConfirmation, error) {
	dc, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		// Channel is not in confirm mode
		return confirmed{}, nil
	}
	return dc, nil
}

func (c *amqpChannel) Close() error {
	return c.ch.Close()
}

type confirmed struct{}

func (confirmed) WaitContext(context.Context) (bool, error) {
	return true, nil
}
