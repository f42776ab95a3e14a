// Package auth issues and checks signed session tokens and hashes
// passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

// Session is what a verified token says about its bearer.
type Session struct {
	TeamID    string
	TokenID   string
	ExpiresAt time.Time
}

// Revoker remembers logged-out tokens until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Sessions issues HS256 session tokens and verifies them against a Revoker.
type Sessions struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

func NewSessions(secret string, ttl time.Duration, revoker Revoker) *Sessions {
	return &Sessions{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}
}

// Issue signs a new token for the team.
func (s *Sessions) Issue(team cluedo.Team) (string, Session, error) {
	now := s.now()
	sess := Session{
		TeamID:    team.ID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}
	// Roles are not carried in the token; admin routes check the store.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sess.TeamID,
		ID:        sess.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, sess, nil
}

// Authenticate verifies the signature, expiry and revocation of a token.
// Any invalid token yields cluedo.ErrUnauthorized.
func (s *Sessions) Authenticate(ctx context.Context, token string) (Session, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || c.Subject == "" || c.ID == "" {
		return Session{}, cluedo.ErrUnauthorized
	}

	revoked, err := s.revoker.IsRevoked(ctx, c.ID)
	if err != nil {
		return Session{}, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return Session{}, cluedo.ErrUnauthorized
	}

	return Session{
		TeamID:    c.Subject,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Revoke makes the session's token unusable.
func (s *Sessions) Revoke(ctx context.Context, sess Session) error {
	return s.revoker.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

var errNoToken = errors.New("no bearer token")

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, error) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || token == "" {
		return "", errNoToken
	}
	return token, nil
}
