package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewJWTIssuer("super-secret", 7*24*time.Hour)

	for _, subject := range []string{"507f1f77bcf86cd799439011", "u1", "ünïcødé", strings.Repeat("x", 256)} {
		token, issued, err := issuer.Issue(subject)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claim, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, subject, claim.Subject)
		assert.Equal(t, issued.TokenID, claim.TokenID)
		assert.True(t, claim.ExpiresAt.Equal(issued.ExpiresAt))
		assert.Equal(t, 7*24*time.Hour, claim.ExpiresAt.Sub(claim.IssuedAt))
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	issuer := NewJWTIssuer("secret", time.Hour)
	_, a, err := issuer.Issue("u1")
	require.NoError(t, err)
	_, b, err := issuer.Issue("u1")
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()

	_, _, err := NewJWTIssuer("secret", time.Hour).Issue("")
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer := NewJWTIssuer("secret", time.Hour, WithClock(clock))

	token, claim, err := issuer.Issue("u1")
	require.NoError(t, err)

	now = claim.ExpiresAt.Add(-time.Second)
	_, err = issuer.Verify(token)
	require.NoError(t, err, "token must be valid just before expiry")

	now = claim.ExpiresAt.Add(time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	issuer := NewJWTIssuer("secret", time.Hour)
	token, _, err := issuer.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	for i := 0; i < len(parts[2])-1; i++ {
		sig := []byte(parts[2])
		if sig[i] == 'A' {
			sig[i] = 'B'
		} else {
			sig[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err := issuer.Verify(tampered)
		require.ErrorIsf(t, err, domain.ErrTokenInvalid, "byte %d", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewJWTIssuer("right", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewJWTIssuer("wrong", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewJWTIssuer("secret", time.Hour)
	for _, token := range []string{"", "not-a-token", "not.a.jwt"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid, token)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	issuer := NewJWTIssuer("secret", time.Hour)
	_, err = issuer.Verify(noSubject)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = issuer.Verify(noExpiry)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
