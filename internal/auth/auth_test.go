package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_IssueAndVerify(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	token, err := v.Issue(Session{UserID: "user-1", Email: "maker@example.com"}, time.Hour)
	require.NoError(t, err)

	s, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "maker@example.com", s.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, time.Minute)
}

func TestVerifier_Rejects(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)
	other, err := NewVerifier("other-secret")
	require.NoError(t, err)

	foreign, err := other.Issue(Session{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong signature")

	expired, err := v.Issue(Session{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	anonymous, err := v.Issue(Session{}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken, "no subject")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = v.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = BearerToken("bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}

func TestStaticSource(t *testing.T) {
	s, err := StaticSource{UserID: "user-1"}.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)

	_, err = StaticSource{}.Session(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestTokenSource(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)
	token, err := v.Issue(Session{UserID: "user-9"}, time.Hour)
	require.NoError(t, err)

	s, err := TokenSource{Verifier: v, Token: token}.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-9", s.UserID)

	_, err = TokenSource{Verifier: v, Token: "bad"}.Session(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = TokenSource{Verifier: v}.Session(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", UserID(ctx))

	ctx = WithSession(ctx, Session{UserID: "user-1"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "user-1", UserID(ctx))
}
