// Package scheduler resets the demo job board on a cron schedule by clearing
// previously seeded postings and seeding a fresh set.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeding"
)

var tracer = telemetry.GetTracer("pathx/admin/scheduler")

type Seeder interface {
	Seed(ctx context.Context, opts seeding.SeedOptions) (seeding.Result, error)
}

type DemoReset struct {
	seeder   Seeder
	spec     string
	logger   *zap.Logger
	cron     *cron.Cron
	mutex    sync.Mutex
	isActive bool
}

func NewDemoReset(seeder Seeder, spec string, logger *zap.Logger) *DemoReset {
	log := cronLogger{logger.Sugar()}
	return &DemoReset{
		seeder: seeder,
		spec:   spec,
		logger: logger,
		cron: cron.New(
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
	}
}

// Start registers the reset job. Calling Start on a running schedule is a
// no-op.
func (d *DemoReset) Start(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.isActive {
		return nil
	}

	if _, err := d.cron.AddFunc(d.spec, func() { d.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", d.spec, err)
	}
	d.cron.Start()
	d.isActive = true
	d.logger.Info("demo reset scheduled", zap.String("spec", d.spec))
	return nil
}

// Stop halts the schedule and waits for a running reset to finish.
func (d *DemoReset) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.isActive {
		return
	}
	<-d.cron.Stop().Done()
	d.isActive = false
	d.logger.Info("demo reset stopped")
}

// RunOnce clears the seeded postings and seeds them again.
func (d *DemoReset) RunOnce(ctx context.Context) seeding.Result {
	ctx, span := tracer.Start(ctx, "DemoReset.RunOnce")
	defer span.End()

	res, err := d.seeder.Seed(ctx, seeding.SeedOptions{
		ClearFirst: true,
		Clear:      seeding.ClearOptions{Scope: seeding.ScopeSeeded},
		Actor:      "scheduler",
	})
	if err != nil {
		telemetry.Fail(span, err)
		d.logger.Error("demo reset failed", zap.String("run_id", res.RunID), zap.Error(err))
		return res
	}
	d.logger.Info("demo reset complete", zap.String("run_id", res.RunID), zap.Int("count", res.Count))
	return res
}

// cronLogger routes cron's key-value logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
