package scheduler

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/weft/pkg/fiber"
)

// Default tracer name for the scheduler.
const defaultTracerName = "weft/scheduler"

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// startUnitSpan opens the span covering one work unit from dequeue to
// commit.
func (s *Scheduler) startUnitSpan(unit WorkUnit, root *fiber.Fiber) {
	_, span := s.tracer.Start(context.Background(), "weft.work_unit",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("weft.unit.kind", unit.Kind.String()),
			attribute.Int64("weft.fiber.id", int64(root.ID)),
			attribute.String("weft.fiber.kind", root.Kind.String()),
			attribute.String("weft.fiber.type", root.TypeName()),
		),
	)
	s.span = span
}

// endUnitSpan closes the current unit span with commit statistics.
func (s *Scheduler) endUnitSpan(steps int, effects map[fiber.EffectTag]int) {
	if s.span == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.Int("weft.steps", steps)}
	for tag, n := range effects {
		attrs = append(attrs, attribute.Int("weft.effects."+tag.String(), n))
	}
	s.span.SetAttributes(attrs...)
	s.span.End()
	s.span = nil
}

// failUnitSpan records a panic escaping the current slice and ends the span.
func (s *Scheduler) failUnitSpan(v any) {
	if s.span == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.span.End()
	s.span = nil
}
