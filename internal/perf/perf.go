// Package perf records OpenTelemetry spans for diagnosing slow runs.
//
// Spans are kept in memory and are only written out when the user asks for
// them with --perf. Until Init is called with Enabled set, every span is a
// no-op.
package perf

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/meza/lcov-summary"

// ErrNotInitialized is returned when spans are requested before Init.
var ErrNotInitialized = errors.New("perf: tracing is not initialized")

type Config struct {
	Enabled bool
}

var (
	stateMu  sync.Mutex
	provider *sdktrace.TracerProvider
	recorder *snapshotRecorder
	tracer   trace.Tracer = noop.NewTracerProvider().Tracer(tracerName)
)

// Span wraps an OpenTelemetry span. A nil Span is safe to use.
type Span struct {
	span trace.Span
}

func Init(cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	stateMu.Lock()
	defer stateMu.Unlock()

	if provider != nil {
		return nil
	}

	recorder = &snapshotRecorder{}
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(recorder),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	tracer = provider.Tracer(tracerName)
	return nil
}

// Enabled reports whether spans are being recorded.
func Enabled() bool {
	stateMu.Lock()
	defer stateMu.Unlock()
	return provider != nil
}

func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	stateMu.Lock()
	current := tracer
	stateMu.Unlock()

	ctx, span := current.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	if s == nil || s.span == nil {
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func (s *Span) End() {
	if s == nil || s.span == nil {
		return
	}
	s.span.End()
}

// Shutdown flushes the provider. Recorded spans stay available for export.
func Shutdown(ctx context.Context) error {
	stateMu.Lock()
	current := provider
	stateMu.Unlock()

	if current == nil {
		return nil
	}
	return current.ForceFlush(ctx)
}

// Reset discards all recorded spans and disables tracing (tests only).
func Reset() {
	stateMu.Lock()
	defer stateMu.Unlock()

	if provider != nil {
		_ = provider.Shutdown(context.Background())
	}
	provider = nil
	recorder = nil
	tracer = noop.NewTracerProvider().Tracer(tracerName)
}
