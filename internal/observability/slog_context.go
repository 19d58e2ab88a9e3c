package observability

import (
	"context"
	"log/slog"

	"github.com/geocoder89/koinonia/internal/actorctx"
	"go.opentelemetry.io/otel/trace"
)

// ContextHandler copies request-scoped values onto each record: the trace
// and span ids of the active span, and the id and role of the authenticated
// caller. Store errors logged deep in a request can then be tied back to
// both the trace and the user who triggered them.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if id, ok := actorctx.IdentityFrom(ctx); ok {
		r.AddAttrs(
			slog.Int64("actor_id", id.ID),
			slog.String("actor_role", id.Role),
		)
	}

	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
