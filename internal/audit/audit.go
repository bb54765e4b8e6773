// Package audit records one row per admin operation in the ClickHouse
// admin_audit table.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
)

var tracer = telemetry.GetTracer("pathx/admin/audit")

type Operation string

const (
	OpSeed    Operation = "seed"
	OpClear   Operation = "clear"
	OpPromote Operation = "promote"
)

type Entry struct {
	RunID     string
	Operation Operation
	Actor     string
	Success   bool
	Count     int
	Error     string
	At        time.Time
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Execer is the subset of clickhouse.Conn the recorder needs.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

const insertEntry = `
	INSERT INTO admin_audit (run_id, operation, actor, success, count, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

type ClickHouseRecorder struct {
	conn   Execer
	logger *zap.Logger
}

func NewClickHouseRecorder(conn Execer, logger *zap.Logger) *ClickHouseRecorder {
	return &ClickHouseRecorder{conn: conn, logger: logger}
}

func (r *ClickHouseRecorder) Record(ctx context.Context, entry Entry) error {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()
	span.SetAttributes(
		telemetry.String("audit.operation", string(entry.Operation)),
		telemetry.Bool("audit.success", entry.Success),
	)

	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	err := r.conn.Exec(ctx, insertEntry,
		entry.RunID,
		string(entry.Operation),
		entry.Actor,
		entry.Success,
		int32(entry.Count),
		entry.Error,
		entry.At.UTC(),
	)
	if err != nil {
		telemetry.Fail(span, err)
		r.logger.Warn("failed to write audit entry",
			zap.String("run_id", entry.RunID),
			zap.String("operation", string(entry.Operation)),
			zap.Error(err))
		return errors.Internal("writing audit entry", err)
	}
	return nil
}

// Nop drops every entry; it is used when CLICKHOUSE_DSN is unset.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
