package otel

import (
	"context"
	"sync"

	eventbus "github.com/quillgraph/quillgraph/internal/eventbus"
	events "github.com/quillgraph/quillgraph/internal/events"
	execid "github.com/quillgraph/quillgraph/internal/execid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("quillgraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer     trace.Tracer
	execSpans  sync.Map // eid -> trace.Span
	fieldSpans sync.Map // fieldKey -> trace.Span
}

type fieldKey struct {
	eid  int64
	path string
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.ExecutionStart) {
		eid, _ := execid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "graphql.operation")
		span.SetAttributes(
			attribute.String("graphql.operation.name", e.OperationName),
			attribute.String("graphql.operation.type", e.OperationType),
		)
		s.execSpans.Store(eid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ExecutionFinish) {
		eid, _ := execid.FromContext(ctx)
		v, ok := s.execSpans.LoadAndDelete(eid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("graphql.error_count", e.ErrorCount))
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FieldResolveStart) {
		eid, _ := execid.FromContext(ctx)
		parent := ctx
		if v, ok := s.execSpans.Load(eid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "graphql.field")
		span.SetAttributes(
			attribute.String("graphql.field.type", e.TypeName),
			attribute.String("graphql.field.name", e.Field),
			attribute.String("graphql.field.path", e.Path),
			attribute.Bool("graphql.field.async", e.Async),
		)
		s.fieldSpans.Store(fieldKey{eid, e.Path}, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FieldResolveFinish) {
		eid, _ := execid.FromContext(ctx)
		v, ok := s.fieldSpans.LoadAndDelete(fieldKey{eid, e.Path})
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Bool("graphql.field.failed", e.Failed))
		span.End()
	})
}
