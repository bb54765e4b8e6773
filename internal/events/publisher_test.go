package events_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/events"
)

func TestNewPublisher_DisabledWithoutURL(t *testing.T) {
	pub, err := events.NewPublisher(events.Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if _, ok := pub.(events.Nop); !ok {
		t.Fatalf("NewPublisher without URL = %T, want events.Nop", pub)
	}
	if err := pub.Publish(context.Background(), events.SubjectJobsSeeded, events.JobsSeeded{Count: 12}); err != nil {
		t.Errorf("Nop.Publish: %v", err)
	}
	pub.Close()
}

func TestEventPayloads(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(events.JobsCleared{RunID: "r1", Scope: "seeded", Deleted: 4, At: at})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"run_id", "scope", "deleted", "at"} {
		if _, ok := got[key]; !ok {
			t.Errorf("payload missing %q: %s", key, data)
		}
	}
	if got["deleted"].(float64) != 4 {
		t.Errorf("deleted = %v, want 4", got["deleted"])
	}
}

type fakeConn struct {
	calls        []string
	published    []string
	flushTimeout time.Duration
	flushErr     error
}

func (c *fakeConn) Publish(subject string, _ []byte) error {
	c.calls = append(c.calls, "publish")
	c.published = append(c.published, subject)
	return nil
}

func (c *fakeConn) FlushTimeout(timeout time.Duration) error {
	c.calls = append(c.calls, "flush")
	c.flushTimeout = timeout
	return c.flushErr
}

func (c *fakeConn) Close() {
	c.calls = append(c.calls, "close")
}

func TestNATSPublisher_CloseFlushesBeforeClosing(t *testing.T) {
	fc := &fakeConn{}
	pub := events.NewNATSPublisherWithConn(fc, 0, zap.NewNop())

	if err := pub.Publish(context.Background(), events.SubjectJobsSeeded, events.JobsSeeded{Count: 12}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	pub.Close()

	want := []string{"publish", "flush", "close"}
	if len(fc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fc.calls, want)
	}
	for i := range want {
		if fc.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", fc.calls, want)
		}
	}
	if fc.flushTimeout <= 0 {
		t.Errorf("flush timeout = %v, want a positive default", fc.flushTimeout)
	}
	if fc.published[0] != events.SubjectJobsSeeded {
		t.Errorf("published %v", fc.published)
	}
}

func TestNATSPublisher_CloseAfterFlushFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fc := &fakeConn{flushErr: stderrors.New("nats: timeout")}
	pub := events.NewNATSPublisherWithConn(fc, 50*time.Millisecond, zap.New(core))

	pub.Close()

	if fc.flushTimeout != 50*time.Millisecond {
		t.Errorf("flush timeout = %v, want 50ms", fc.flushTimeout)
	}
	if len(fc.calls) != 2 || fc.calls[1] != "close" {
		t.Errorf("calls = %v, want flush then close", fc.calls)
	}
	if logs.FilterMessage("admin events may not have been delivered").Len() != 1 {
		t.Errorf("expected a warning about undelivered events, got %v", logs.All())
	}
}
