package perf

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type SpanSnapshot struct {
	Name         string                 `json:"name"`
	TraceID      string                 `json:"trace_id"`
	SpanID       string                 `json:"span_id"`
	ParentSpanID string                 `json:"parent_span_id,omitempty"`
	StartTime    time.Time              `json:"start_time"`
	EndTime      time.Time              `json:"end_time"`
	DurationNS   int64                  `json:"duration_ns"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
	Events       []EventSnapshot        `json:"events,omitempty"`
}

type EventSnapshot struct {
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// snapshotRecorder is the provider's span exporter. Spans are converted to
// SpanSnapshot as they end, so GetSpans and ExportToFile share one shape.
type snapshotRecorder struct {
	mu    sync.Mutex
	spans []SpanSnapshot
}

func (recorder *snapshotRecorder) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	for _, span := range spans {
		recorder.spans = append(recorder.spans, snapshotSpan(span))
	}
	return nil
}

func (*snapshotRecorder) Shutdown(context.Context) error {
	return nil
}

func (recorder *snapshotRecorder) snapshots() []SpanSnapshot {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]SpanSnapshot(nil), recorder.spans...)
}

// GetSpans returns the spans that have ended so far, in the order they ended.
func GetSpans() ([]SpanSnapshot, error) {
	stateMu.Lock()
	current := recorder
	stateMu.Unlock()

	if current == nil {
		return nil, ErrNotInitialized
	}
	return current.snapshots(), nil
}

func FindSpanByName(spans []SpanSnapshot, name string) (SpanSnapshot, bool) {
	for _, span := range spans {
		if span.Name == name {
			return span, true
		}
	}
	return SpanSnapshot{}, false
}

func snapshotSpan(span sdktrace.ReadOnlySpan) SpanSnapshot {
	sc := span.SpanContext()
	psc := span.Parent()

	out := SpanSnapshot{
		Name:       span.Name(),
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		StartTime:  span.StartTime(),
		EndTime:    span.EndTime(),
		DurationNS: span.EndTime().Sub(span.StartTime()).Nanoseconds(),
		Attributes: attributesToMap(span.Attributes()),
	}
	if psc.IsValid() {
		out.ParentSpanID = psc.SpanID().String()
	}

	for _, event := range span.Events() {
		out.Events = append(out.Events, EventSnapshot{
			Name:       event.Name,
			Timestamp:  event.Time,
			Attributes: attributesToMap(event.Attributes),
		})
	}

	return out
}

func attributesToMap(attrs []attribute.KeyValue) map[string]interface{} {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		out[string(attr.Key)] = attr.Value.AsInterface()
	}
	return out
}
