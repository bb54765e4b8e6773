// Package roles grants the super_admin role to the signed-in operator.
package roles

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/telemetry"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/audit"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/events"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/session"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
)

type PromoteResult struct {
	UserID  string      `json:"userId"`
	Email   string      `json:"email"`
	Created bool        `json:"created"`
	Role    models.Role `json:"role"`
	At      time.Time   `json:"at"`
}

type Options struct {
	UsersCollection string
	AllowList       AllowList
}

type Promoter struct {
	store     store.Client
	sessions  session.Provider
	publisher events.Publisher
	recorder  audit.Recorder
	opts      Options
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewPromoter(st store.Client, sessions session.Provider, publisher events.Publisher, recorder audit.Recorder, opts Options, logger *zap.Logger) *Promoter {
	if opts.UsersCollection == "" {
		opts.UsersCollection = "users"
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Promoter{
		store:     st,
		sessions:  sessions,
		publisher: publisher,
		recorder:  recorder,
		opts:      opts,
		logger:    logger,
		tracer:    telemetry.GetTracer("pathx/admin/roles"),
		now:       time.Now,
	}
}

// WithClock replaces the time source used for createdAt and roleUpdatedAt.
func (p *Promoter) WithClock(now func() time.Time) *Promoter {
	p.now = now
	return p
}

// PromoteCurrentUser sets role=super_admin on the profile of the signed-in
// operator, creating the profile when it does not exist yet.
func (p *Promoter) PromoteCurrentUser(ctx context.Context) (PromoteResult, error) {
	ctx, span := p.tracer.Start(ctx, "PromoteCurrentUser")
	defer span.End()

	sess, err := p.resolve(ctx)
	if err != nil {
		telemetry.Fail(span, err)
		return PromoteResult{}, err
	}

	logger := p.logger.With(zap.String("user_id", sess.ID), zap.String("email", sess.Email))
	span.SetAttributes(telemetry.String("user.id", sess.ID))

	if !p.opts.AllowList.Allows(sess) {
		err := errors.Unauthorized("operator is not on the admin allow-list", nil)
		telemetry.Fail(span, err)
		logger.Warn("promotion refused, add the operator to ADMIN_ALLOWED_EMAILS or ADMIN_ALLOWED_IDS")
		p.audit(ctx, sess, false, err)
		return PromoteResult{}, err
	}

	doc, exists, err := p.store.Get(ctx, p.opts.UsersCollection, sess.ID)
	if err != nil {
		return PromoteResult{}, p.storeFailed(ctx, span, logger, sess, "reading user profile", err)
	}

	now := p.now()
	result := PromoteResult{
		UserID: sess.ID,
		Email:  sess.Email,
		Role:   models.RoleSuperAdmin,
		At:     now,
	}

	var payload store.Record
	if exists {
		profile := models.ProfileFromDocument(sess.ID, doc)
		if profile.Email != "" {
			result.Email = profile.Email
		}
		payload = store.Record{
			models.FieldRole:          string(models.RoleSuperAdmin),
			models.FieldRoleUpdatedAt: now,
		}
	} else {
		result.Created = true
		payload = store.Record{
			models.FieldEmail:         sess.Email,
			models.FieldRole:          string(models.RoleSuperAdmin),
			models.FieldCreatedAt:     now,
			models.FieldRoleUpdatedAt: now,
		}
	}

	if err := p.store.Set(ctx, p.opts.UsersCollection, sess.ID, payload, store.SetOptions{Merge: true}); err != nil {
		return PromoteResult{}, p.storeFailed(ctx, span, logger, sess, "writing user profile", err)
	}

	logger.Info("promoted user to super_admin",
		zap.Bool("created", result.Created),
		zap.Time("role_updated_at", now))

	if err := p.publisher.Publish(ctx, events.SubjectUserPromoted, events.UserPromoted{
		UserID:  result.UserID,
		Email:   result.Email,
		Created: result.Created,
		At:      now,
	}); err != nil {
		logger.Warn("admin event not published", zap.Error(err))
	}
	p.audit(ctx, sess, true, nil)

	return result, nil
}

// Profile returns the stored profile for userID.
func (p *Promoter) Profile(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	doc, ok, err := p.store.Get(ctx, p.opts.UsersCollection, userID)
	if err != nil {
		return models.UserProfile{}, false, errors.StoreUnavailable("reading user profile", err)
	}
	if !ok {
		return models.UserProfile{}, false, nil
	}
	return models.ProfileFromDocument(userID, doc), true, nil
}

func (p *Promoter) resolve(ctx context.Context) (models.Session, error) {
	sess, err := p.sessions.Current(ctx)
	switch {
	case err == nil:
		return sess, nil
	case stderrors.Is(err, session.ErrNoSession):
		p.logger.Warn("no user is logged in, sign in to PathX first and rerun promote")
		return models.Session{}, errors.NoSession("no user is logged in", err)
	case errors.IsType(err, errors.ErrTypeNoSession):
		p.logger.Warn("session could not be verified, sign in again and rerun promote", zap.Error(err))
		return models.Session{}, err
	default:
		p.logger.Error("session lookup failed", zap.Error(err))
		if errors.TypeOf(err) == errors.ErrTypeInternal {
			return models.Session{}, errors.StoreUnavailable("session lookup failed", err)
		}
		return models.Session{}, err
	}
}

func (p *Promoter) storeFailed(ctx context.Context, span trace.Span, logger *zap.Logger, sess models.Session, op string, err error) error {
	derr := errors.StoreUnavailable(op, err)
	telemetry.Fail(span, derr)
	logger.Error("promotion failed, check the store credentials and network access and run promote again",
		zap.String("step", op),
		zap.Error(err))
	p.audit(ctx, sess, false, derr)
	return derr
}

func (p *Promoter) audit(ctx context.Context, sess models.Session, ok bool, err error) {
	entry := audit.Entry{
		Operation: audit.OpPromote,
		RunID:     uuid.NewString(),
		Actor:     sess.Email,
		Success:   ok,
		At:        p.now(),
	}
	if ok {
		entry.Count = 1
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if rerr := p.recorder.Record(ctx, entry); rerr != nil {
		p.logger.Warn("audit entry not recorded", zap.Error(rerr))
	}
}
