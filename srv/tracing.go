package srv

import (
	"context"
	"net/http"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordError records an error on the span following OTel exception conventions.
// It adds an "exception" event with message, type, and stacktrace attributes,
// and sets the span status to Error.
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}

	const maxStackSize = 4096
	stackBuf := make([]byte, maxStackSize)
	stackSize := runtime.Stack(stackBuf, false)

	span.AddEvent("exception",
		trace.WithAttributes(
			attribute.String("exception.type", "error"),
			attribute.String("exception.message", err.Error()),
			attribute.String("exception.stacktrace", string(stackBuf[:stackSize])),
		),
	)
	span.SetStatus(codes.Error, err.Error())
}

// AnnotateView adds the rendered view's shape to the request span.
func AnnotateView(ctx context.Context, term string, visible, total int, generation uint64) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Bool("view.searching", strings.TrimSpace(term) != ""),
		attribute.Int("view.term_length", len(term)),
		attribute.Int("view.visible", visible),
		attribute.Int("view.total", total),
		attribute.Int64("feed.generation", int64(generation)),
	)
}

// WantsJSON checks if the client prefers JSON based on the Accept header.
// A browser's Accept always lists text/html, which wins.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
