package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Jannatul-Ferdauss/PathX-sub001/common/cache"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
)

const keyPrefix = "pathx:session:"

// CacheProvider maps opaque session ids to identities held in a cache,
// normally Redis.
type CacheProvider struct {
	cache    cache.Cache
	fallback string
	ttl      time.Duration
}

func NewCacheProvider(c cache.Cache, fallbackToken string, ttl time.Duration) *CacheProvider {
	return &CacheProvider{cache: c, fallback: fallbackToken, ttl: ttl}
}

func (p *CacheProvider) Current(ctx context.Context) (models.Session, error) {
	id := token(ctx, p.fallback)
	if id == "" {
		return models.Session{}, ErrNoSession
	}

	var sess models.Session
	err := p.cache.Get(ctx, keyPrefix+id, &sess)
	if stderrors.Is(err, cache.ErrNotFound) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, errors.StoreUnavailable("reading session", err)
	}
	if sess.ID == "" {
		return models.Session{}, errors.NoSession("stored session has no user id", nil)
	}
	return sess, nil
}

// Put stores sess under id for the provider's ttl.
func (p *CacheProvider) Put(ctx context.Context, id string, sess models.Session) error {
	if id == "" {
		return cache.ErrInvalidKey
	}
	return p.cache.Set(ctx, keyPrefix+id, sess, p.ttl)
}

func (p *CacheProvider) Revoke(ctx context.Context, id string) error {
	return p.cache.Delete(ctx, keyPrefix+id)
}
