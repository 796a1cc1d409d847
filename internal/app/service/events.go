package service

import (
	"context"
	"log/slog"
)

// Routing keys for the events emitted after a successful write
const (
	EventCustomerCreated = "crm.customer.created"
	EventProductCreated  = "crm.product.created"
	EventOrderCreated    = "crm.order.created"
)

// EventPublisher delivers domain events to interested parties
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Option configures a service
type Option func(*options)

type options struct {
	events EventPublisher
}

// WithEvents makes the service publish an event after every successful write
func WithEvents(p EventPublisher) Option {
	return func(o *options) {
		o.events = p
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// notifier publishes events without ever failing the write that produced them
type notifier struct {
	events EventPublisher
	logger *slog.Logger
}

func (n notifier) publish(ctx context.Context, routingKey string, payload any) {
	if n.events == nil {
		return
	}
	if err := n.events.Publish(ctx, routingKey, payload); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish event",
			slog.String("routing_key", routingKey),
			slog.String("error", err.Error()),
		)
	}
}
