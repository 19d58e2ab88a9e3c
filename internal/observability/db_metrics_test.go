package observability

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: "unique_violation"},
		{name: "fk", err: &pgconn.PgError{Code: "23503"}, want: "foreign_key_violation"},
		{name: "other_pg", err: &pgconn.PgError{Code: "42P01"}, want: "pg_42P01"},
		{name: "timeout", err: errors.New("context deadline exceeded"), want: "timeout"},
		{name: "connection", err: errors.New("connection refused"), want: "connection"},
		{name: "unknown", err: errors.New("boom"), want: "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Fatalf("classifyDBErr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserveDB_CountsErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("events.get_by_id", func() error { return nil })
	err := p.ObserveDB("events.get_by_id", func() error { return &pgconn.PgError{Code: "23505"} })
	if err == nil {
		t.Fatalf("ObserveDB must return the wrapped error")
	}

	got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("events.get_by_id", "unique_violation"))
	if got != 1 {
		t.Fatalf("errors_total = %v, want 1", got)
	}
}

func TestObserveReconcile(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.ObserveReconcile(2, 3)

	if got := testutil.ToFloat64(p.ParticipantsAdded); got != 2 {
		t.Fatalf("added = %v", got)
	}
	if got := testutil.ToFloat64(p.ParticipantsSkipped); got != 3 {
		t.Fatalf("skipped = %v", got)
	}

	var nilProm *Prom
	nilProm.ObserveReconcile(1, 1)
}
