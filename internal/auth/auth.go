// Package auth resolves the current user session, either from a signed
// bearer token or from a statically configured user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Session identifies the user on whose behalf an operation runs.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Source yields the current session. It returns domain.ErrAuthRequired
// when no user is signed in.
type Source interface {
	Session(ctx context.Context) (Session, error)
}

// Claims are the JWT claims pantry issues and accepts. The subject is the
// user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier checks and issues HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify parses a token and returns its session. Tokens without a subject
// are rejected.
func (v *Verifier) Verify(token string) (Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	s := Session{UserID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Issue signs a token for s valid for ttl.
func (v *Verifier) Issue(s Session, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			Issuer:    "pantry",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// StaticSource always returns the same session. An empty user id means
// signed out.
type StaticSource struct {
	UserID string
	Email  string
}

func (s StaticSource) Session(context.Context) (Session, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return Session{}, domain.ErrAuthRequired
	}
	return Session{UserID: s.UserID, Email: s.Email}, nil
}

// TokenSource verifies a fixed token, as the CLI does with PANTRY_TOKEN.
type TokenSource struct {
	Verifier *Verifier
	Token    string
}

func (s TokenSource) Session(context.Context) (Session, error) {
	if s.Token == "" {
		return Session{}, domain.ErrAuthRequired
	}
	sess, err := s.Verifier.Verify(s.Token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	}
	return sess, nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// UserID returns the session user id stored in ctx, or "".
func UserID(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.UserID
}
