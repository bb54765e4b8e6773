// Package seeding clears and inserts the sample job postings the PathX admin
// panel offers to operators.
package seeding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/audit"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/events"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeddata"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
)

type Scope string

const (
	// ScopeAll removes every job posting, seeded or not.
	ScopeAll Scope = "all"
	// ScopeSeeded removes only documents carrying the seed marker.
	ScopeSeeded Scope = "seeded"
)

// ParseScope accepts "all", "seeded" or the empty string, which means all.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeSeeded:
		return ScopeSeeded, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown clear scope %q", s), nil)
}

type ClearOptions struct {
	Scope Scope
	// Confirmed must be set to clear with ScopeAll.
	Confirmed bool
	Actor     string
}

type SeedOptions struct {
	ClearFirst bool
	Clear      ClearOptions
	Actor      string
}

// Result is what the admin panel renders after a seed.
type Result struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
	RunID   string `json:"runId,omitempty"`
	// CleanupLog lists the documents a failed non-atomic seed left behind.
	CleanupLog []store.DocumentRef `json:"-"`
}

type ClearResult struct {
	Scope   Scope `json:"scope"`
	Deleted int   `json:"deleted"`
}

type Options struct {
	JobsCollection    string
	AtomicBatch       bool
	CompensatePartial bool
}

type Service struct {
	store     store.Client
	publisher events.Publisher
	recorder  audit.Recorder
	opts      Options
	logger    *zap.Logger
	tracer    trace.Tracer
	jobs      func() []models.JobPosting
}

func NewService(st store.Client, publisher events.Publisher, recorder audit.Recorder, opts Options, logger *zap.Logger) *Service {
	if opts.JobsCollection == "" {
		opts.JobsCollection = "jobs"
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		recorder:  recorder,
		opts:      opts,
		logger:    logger,
		tracer:    telemetry.GetTracer("pathx/admin/seeding"),
		jobs:      seeddata.Jobs,
	}
}

// Seed inserts the seed set, optionally clearing first. The returned Result
// is always populated; err is non-nil exactly when Result.Success is false.
func (s *Service) Seed(ctx context.Context, opts SeedOptions) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "Seed")
	defer span.End()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	span.SetAttributes(
		telemetry.String("seed.run_id", runID),
		telemetry.Bool("seed.clear_first", opts.ClearFirst),
	)

	cleared := 0
	if opts.ClearFirst {
		clearOpts := opts.Clear
		if clearOpts.Actor == "" {
			clearOpts.Actor = opts.Actor
		}
		res, err := s.clear(ctx, runID, clearOpts)
		if err != nil {
			logger.Error("clear before seed failed, seeding aborted", zap.Error(err))
			return s.seedFailed(ctx, span, runID, opts.Actor, nil, err)
		}
		cleared = res.Deleted
	}

	jobs := s.jobs()
	records := make([]store.Record, 0, len(jobs))
	for _, job := range jobs {
		records = append(records, store.Record(job.ToDocument(runID)))
	}

	batcher, canBatch := s.store.(store.Batcher)
	useBatch := canBatch && s.opts.AtomicBatch
	span.SetAttributes(telemetry.Bool("seed.atomic", useBatch))

	var (
		refs []store.DocumentRef
		err  error
	)
	if useBatch {
		refs, err = batcher.AddAll(ctx, s.opts.JobsCollection, records)
		if err != nil {
			err = errors.StoreUnavailable("atomic seed batch rejected, nothing was written", err)
		}
	} else {
		refs, err = s.insertAll(ctx, records)
	}

	if err != nil {
		logger.Error("seeding failed",
			zap.Bool("atomic", useBatch),
			zap.Int("written", len(refs)),
			zap.Error(err))
		if len(refs) > 0 && s.opts.CompensatePartial {
			refs, err = s.compensate(ctx, logger, refs, err)
		}
		return s.seedFailed(ctx, span, runID, opts.Actor, refs, err)
	}

	stats := ComputeStats(jobs)
	logger.Info("seeded job postings",
		zap.String("collection", s.opts.JobsCollection),
		zap.Int("count", len(refs)),
		zap.Int("cleared", cleared),
		zap.Bool("atomic", useBatch),
		zap.Object("stats", stats))

	now := time.Now()
	s.announce(ctx, events.SubjectJobsSeeded, events.JobsSeeded{
		RunID:   runID,
		Count:   len(refs),
		Cleared: cleared,
		Atomic:  useBatch,
		At:      now,
	})
	s.audit(ctx, audit.Entry{
		RunID:     runID,
		Operation: audit.OpSeed,
		Actor:     opts.Actor,
		Success:   true,
		Count:     len(refs),
		At:        now,
	})

	return Result{Success: true, Count: len(refs), RunID: runID}, nil
}

// insertAll issues one create per record concurrently and waits for all of
// them. On failure it returns the refs that were written alongside the first
// error.
func (s *Service) insertAll(ctx context.Context, records []store.Record) ([]store.DocumentRef, error) {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		written = make([]store.DocumentRef, 0, len(records))
	)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			ref, err := s.store.Add(ctx, s.opts.JobsCollection, rec)
			if err != nil {
				return err
			}
			mu.Lock()
			written = append(written, ref)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if len(written) == 0 {
			return nil, errors.StoreUnavailable("seed insert rejected", err)
		}
		return written, errors.PartialWrite(
			fmt.Sprintf("seed insert rejected after %d of %d documents were written", len(written), len(records)), err)
	}
	return written, nil
}

func (s *Service) compensate(ctx context.Context, logger *zap.Logger, refs []store.DocumentRef, cause error) ([]store.DocumentRef, error) {
	deleted, rbErr := s.Rollback(ctx, refs)
	if rbErr != nil {
		logger.Error("rollback of partial seed incomplete",
			zap.Int("deleted", deleted),
			zap.Int("written", len(refs)),
			zap.Error(rbErr))
		return refs, cause
	}
	logger.Info("rolled back partial seed", zap.Int("deleted", deleted))
	return nil, errors.StoreUnavailable(
		fmt.Sprintf("seed insert rejected, %d written documents were rolled back", deleted), stripDomain(cause))
}

func (s *Service) seedFailed(ctx context.Context, span trace.Span, runID, actor string, refs []store.DocumentRef, err error) (Result, error) {
	telemetry.Fail(span, err)
	msg := Message(err)
	s.audit(ctx, audit.Entry{
		RunID:     runID,
		Operation: audit.OpSeed,
		Actor:     actor,
		Success:   false,
		Count:     len(refs),
		Error:     msg,
	})
	return Result{Success: false, Error: msg, RunID: runID, CleanupLog: refs}, err
}

// Rollback deletes the given documents, typically a failed seed's cleanup
// log. It returns how many deletes succeeded.
func (s *Service) Rollback(ctx context.Context, refs []store.DocumentRef) (int, error) {
	ctx, span := s.tracer.Start(ctx, "Rollback")
	defer span.End()
	span.SetAttributes(telemetry.Int("rollback.size", len(refs)))

	deleted, err := s.deleteAll(ctx, refs)
	if err != nil {
		telemetry.Fail(span, err)
	}
	return deleted, err
}

// Clear deletes job postings in the requested scope.
func (s *Service) Clear(ctx context.Context, opts ClearOptions) (ClearResult, error) {
	return s.clear(ctx, uuid.NewString(), opts)
}

func (s *Service) clear(ctx context.Context, runID string, opts ClearOptions) (ClearResult, error) {
	ctx, span := s.tracer.Start(ctx, "Clear")
	defer span.End()

	logger := s.logger.With(zap.String("run_id", runID))
	scope := opts.Scope
	if scope == "" {
		scope = ScopeAll
	}
	result := ClearResult{Scope: scope}
	span.SetAttributes(telemetry.String("clear.scope", string(scope)))

	var filters []store.Filter
	switch scope {
	case ScopeAll:
		if !opts.Confirmed {
			err := errors.InvalidInput("clearing every job posting requires confirmation, confirm it or clear the seeded scope only", nil)
			telemetry.Fail(span, err)
			logger.Warn("unconfirmed clear refused", zap.String("scope", string(scope)))
			return result, err
		}
	case ScopeSeeded:
		filters = append(filters, store.Where(models.FieldSeeded, true))
	default:
		err := errors.InvalidInput(fmt.Sprintf("unknown clear scope %q", scope), nil)
		telemetry.Fail(span, err)
		return result, err
	}

	refs, err := s.store.List(ctx, s.opts.JobsCollection, filters...)
	if err != nil {
		err = errors.StoreUnavailable("listing job postings failed", err)
		return result, s.clearFailed(ctx, span, logger, runID, opts.Actor, 0, err)
	}

	deleted, err := s.deleteAll(ctx, refs)
	result.Deleted = deleted
	if err != nil {
		return result, s.clearFailed(ctx, span, logger, runID, opts.Actor, deleted, err)
	}

	if deleted == 0 {
		logger.Info("no job postings to clear", zap.String("scope", string(scope)))
	} else {
		logger.Info("cleared job postings",
			zap.String("collection", s.opts.JobsCollection),
			zap.String("scope", string(scope)),
			zap.Int("deleted", deleted))
	}

	now := time.Now()
	s.announce(ctx, events.SubjectJobsCleared, events.JobsCleared{
		RunID:   runID,
		Scope:   string(scope),
		Deleted: deleted,
		At:      now,
	})
	s.audit(ctx, audit.Entry{
		RunID:     runID,
		Operation: audit.OpClear,
		Actor:     opts.Actor,
		Success:   true,
		Count:     deleted,
		At:        now,
	})
	return result, nil
}

func (s *Service) clearFailed(ctx context.Context, span trace.Span, logger *zap.Logger, runID, actor string, deleted int, err error) error {
	telemetry.Fail(span, err)
	logger.Error("clearing job postings failed", zap.Int("deleted", deleted), zap.Error(err))
	s.audit(ctx, audit.Entry{
		RunID:     runID,
		Operation: audit.OpClear,
		Actor:     actor,
		Success:   false,
		Count:     deleted,
		Error:     Message(err),
	})
	return err
}

// deleteAll issues one delete per ref concurrently and waits for all of
// them.
func (s *Service) deleteAll(ctx context.Context, refs []store.DocumentRef) (int, error) {
	var (
		g       errgroup.Group
		deleted atomic.Int64
	)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if err := s.store.Delete(ctx, ref); err != nil {
				return err
			}
			deleted.Add(1)
			return nil
		})
	}

	err := g.Wait()
	n := int(deleted.Load())
	if err == nil {
		return n, nil
	}
	if n == 0 {
		return 0, errors.StoreUnavailable("deleting job postings failed", err)
	}
	return n, errors.PartialWrite(fmt.Sprintf("deleted %d of %d job postings before a delete failed", n, len(refs)), err)
}

func (s *Service) announce(ctx context.Context, subject string, event any) {
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.logger.Warn("admin event not published", zap.String("subject", subject), zap.Error(err))
	}
}

func (s *Service) audit(ctx context.Context, entry audit.Entry) {
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("audit entry not recorded", zap.String("run_id", entry.RunID), zap.Error(err))
	}
}

// Message is the text shown to operators for a failed operation: the
// message of the underlying store error when there is one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *errors.DomainError
	if errors.As(err, &de) {
		return de.Cause()
	}
	return err.Error()
}

func stripDomain(err error) error {
	var de *errors.DomainError
	if errors.As(err, &de) && de.Err != nil {
		return de.Err
	}
	return err
}
