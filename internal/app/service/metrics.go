package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// operations counts service calls by entity, operation and result
type operations struct {
	counter metric.Int64Counter
	entity  string
}

func newOperations(meter metric.Meter, entity string) operations {
	counter, _ := meter.Int64Counter(
		"crm.operations",
		metric.WithDescription("Total number of CRM operations"),
	)
	return operations{counter: counter, entity: entity}
}

func (o operations) record(ctx context.Context, operation, result string) {
	o.counter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("entity", o.entity),
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
