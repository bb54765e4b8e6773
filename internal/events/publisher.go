// Package events announces completed admin operations on NATS so that
// downstream indexers can refresh their view of the jobs collection.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
)

var tracer = telemetry.GetTracer("pathx/admin/events")

const (
	SubjectJobsSeeded   = "pathx.admin.jobs.seeded"
	SubjectJobsCleared  = "pathx.admin.jobs.cleared"
	SubjectUserPromoted = "pathx.admin.users.promoted"
)

type JobsSeeded struct {
	RunID   string    `json:"run_id"`
	Count   int       `json:"count"`
	Cleared int       `json:"cleared"`
	Atomic  bool      `json:"atomic"`
	At      time.Time `json:"at"`
}

type JobsCleared struct {
	RunID   string    `json:"run_id"`
	Scope   string    `json:"scope"`
	Deleted int       `json:"deleted"`
	At      time.Time `json:"at"`
}

type UserPromoted struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Created bool      `json:"created"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close()
}

type Options struct {
	URL         string
	ConnTimeout time.Duration
	// FlushTimeout bounds how long Close waits for buffered events to reach
	// the server.
	FlushTimeout time.Duration
}

const defaultFlushTimeout = 5 * time.Second

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

type natsPublisher struct {
	conn         conn
	flushTimeout time.Duration
	logger       *zap.Logger
}

// NewPublisher connects to NATS. An empty URL yields a publisher that drops
// every event.
func NewPublisher(opts Options, logger *zap.Logger) (Publisher, error) {
	if opts.URL == "" {
		logger.Info("NATS_URL not set, admin events disabled")
		return Nop{}, nil
	}

	natsOpts := []nats.Option{
		nats.Name("pathx-admin"),
		nats.Timeout(opts.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(opts.URL, natsOpts...)
	if err != nil {
		return nil, errors.Internal("connecting to NATS", err)
	}

	return newNATSPublisher(nc, opts.FlushTimeout, logger), nil
}

func newNATSPublisher(c conn, flushTimeout time.Duration, logger *zap.Logger) *natsPublisher {
	if flushTimeout <= 0 {
		flushTimeout = defaultFlushTimeout
	}
	return &natsPublisher{
		conn:         c,
		flushTimeout: flushTimeout,
		logger:       logger,
	}
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event any) error {
	_, span := tracer.Start(ctx, "Publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		telemetry.Fail(span, err)
		return errors.Internal("marshaling admin event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		telemetry.Fail(span, err)
		p.logger.Error("failed to publish admin event",
			zap.String("subject", subject),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published admin event", zap.String("subject", subject))
	return nil
}

// Close flushes buffered events before closing the connection, so a
// one-shot command that exits right after publishing still delivers them.
func (p *natsPublisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.FlushTimeout(p.flushTimeout); err != nil {
		p.logger.Warn("admin events may not have been delivered",
			zap.Duration("flush_timeout", p.flushTimeout),
			zap.Error(err))
	}
	p.conn.Close()
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() {}
