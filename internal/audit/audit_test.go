package audit_test

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/audit"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
)

type fakeExecer struct {
	query string
	args  []any
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, query string, args ...any) error {
	f.query = query
	f.args = args
	return f.err
}

func TestClickHouseRecorder_Record(t *testing.T) {
	conn := &fakeExecer{}
	rec := audit.NewClickHouseRecorder(conn, zap.NewNop())
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.FixedZone("BDT", 6*3600))

	err := rec.Record(context.Background(), audit.Entry{
		RunID:     "run-1",
		Operation: audit.OpSeed,
		Actor:     "cli",
		Success:   true,
		Count:     12,
		At:        at,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if !strings.Contains(conn.query, "INSERT INTO admin_audit") {
		t.Errorf("unexpected query %q", conn.query)
	}
	if len(conn.args) != 7 {
		t.Fatalf("got %d args, want 7", len(conn.args))
	}
	if conn.args[1] != "seed" || conn.args[4] != int32(12) {
		t.Errorf("args = %v", conn.args)
	}
	if ts := conn.args[6].(time.Time); ts.Location() != time.UTC || !ts.Equal(at) {
		t.Errorf("created_at = %v, want %v in UTC", ts, at)
	}
}

func TestClickHouseRecorder_FillsTimestamp(t *testing.T) {
	conn := &fakeExecer{}
	rec := audit.NewClickHouseRecorder(conn, zap.NewNop())
	if err := rec.Record(context.Background(), audit.Entry{Operation: audit.OpClear}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if conn.args[6].(time.Time).IsZero() {
		t.Error("zero At must be replaced with the current time")
	}
}

func TestClickHouseRecorder_Error(t *testing.T) {
	conn := &fakeExecer{err: stderrors.New("connection refused")}
	rec := audit.NewClickHouseRecorder(conn, zap.NewNop())

	err := rec.Record(context.Background(), audit.Entry{Operation: audit.OpPromote})
	if !errors.IsType(err, errors.ErrTypeInternal) {
		t.Errorf("Record err = %v, want INTERNAL", err)
	}
}
