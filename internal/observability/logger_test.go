package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/geocoder89/koinonia/internal/actorctx"
	"github.com/geocoder89/koinonia/internal/auth"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	if rec["trace_id"] != traceID.String() {
		t.Fatalf("trace_id = %v", rec["trace_id"])
	}
	if rec["span_id"] != spanID.String() {
		t.Fatalf("span_id = %v", rec["span_id"])
	}
}

func TestNewLogger_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	log.Debug("noise")

	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered in prod, got %s", buf.String())
	}
}

func TestNewLogger_AddsActor(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	ctx := actorctx.WithIdentity(context.Background(), auth.Identity{ID: 7, Role: "organizer"})
	log.ErrorContext(ctx, "store failed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	if rec["actor_id"] != float64(7) || rec["actor_role"] != "organizer" {
		t.Fatalf("actor attrs = %v %v", rec["actor_id"], rec["actor_role"])
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatalf("no span in context, trace_id should be absent")
	}
}

func TestNewLogger_AnonymousHasNoActor(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	log.Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if _, ok := rec["actor_id"]; ok {
		t.Fatalf("anonymous record carries actor_id: %v", rec)
	}
}
