package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTProvider reads identities from HMAC-signed tokens whose subject is the
// user id.
type JWTProvider struct {
	secret   []byte
	fallback string
	now      func() time.Time
}

func NewJWTProvider(secret, fallbackToken string) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.InvalidInput("SESSION_SECRET is required for jwt sessions", nil)
	}
	return &JWTProvider{secret: []byte(secret), fallback: fallbackToken, now: time.Now}, nil
}

func (p *JWTProvider) Current(ctx context.Context) (models.Session, error) {
	raw := token(ctx, p.fallback)
	if raw == "" {
		return models.Session{}, ErrNoSession
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return models.Session{}, errors.NoSession("session token rejected", err)
	}
	if !tok.Valid || claims.Subject == "" {
		return models.Session{}, errors.NoSession("session token has no subject", nil)
	}

	return models.Session{ID: claims.Subject, Email: claims.Email}, nil
}

// Issue signs a token for sess that expires after ttl.
func (p *JWTProvider) Issue(sess models.Session, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		Email: sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", errors.Internal("signing session token", err)
	}
	return signed, nil
}
