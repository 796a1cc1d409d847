package events

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewPublishingEnvelope(t *testing.T) {
	msg, err := newPublishing(context.Background(), "crm.customer.created", map[string]string{"email": "a@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "crm.customer.created", msg.Type)
	assert.NotEmpty(t, msg.MessageId)

	var env struct {
		ID   string            `json:"id"`
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &env))
	assert.Equal(t, msg.MessageId, env.ID)
	assert.Equal(t, "crm.customer.created", env.Type)
	assert.Equal(t, "a@example.com", env.Data["email"])

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(msg.Body, &raw))
	assert.Contains(t, raw, "occurredAt")
	assert.NotContains(t, raw, "occurred_at")
}

func TestNewPublishingCarriesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	msg, err := newPublishing(ctx, "order.created", struct{}{})
	require.NoError(t, err)

	traceparent := headerCarrier(msg.Headers).Get("traceparent")
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestNewPublishingRejectsUnencodable(t *testing.T) {
	_, err := newPublishing(context.Background(), "product.created", make(chan int))
	assert.Error(t, err)
}
