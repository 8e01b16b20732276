package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// JWTIssuer signs and verifies HS256 tokens carrying a subject claim.
// Access and refresh tokens use separate issuers with separate secrets.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a JWTIssuer.
type Option func(*JWTIssuer)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *JWTIssuer) { i.now = now }
}

func NewJWTIssuer(secret string, ttl time.Duration, opts ...Option) *JWTIssuer {
	i := &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TTL reports how long issued tokens stay valid.
func (i *JWTIssuer) TTL() time.Duration {
	return i.ttl
}

func (i *JWTIssuer) Issue(subject string) (string, domain.Claim, error) {
	if subject == "" {
		return "", domain.Claim{}, errors.New("issue token: empty subject")
	}

	// NumericDate has second precision; truncate so the returned claim
	// matches what Verify decodes.
	now := i.now().UTC().Truncate(time.Second)
	claim := domain.Claim{
		TokenID:   uuid.NewString(),
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        claim.TokenID,
		Subject:   claim.Subject,
		IssuedAt:  jwt.NewNumericDate(claim.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(claim.ExpiresAt),
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", domain.Claim{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claim, nil
}

// Verify checks the signature first, then expiry. Expired tokens fail with
// domain.ErrTokenExpired; everything else with domain.ErrTokenInvalid.
func (i *JWTIssuer) Verify(token string) (domain.Claim, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claim{}, domain.ErrTokenExpired
		}
		return domain.Claim{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if rc.Subject == "" {
		return domain.Claim{}, domain.ErrTokenInvalid
	}

	claim := domain.Claim{
		TokenID:   rc.ID,
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time.UTC(),
	}
	if rc.IssuedAt != nil {
		claim.IssuedAt = rc.IssuedAt.Time.UTC()
	}
	return claim, nil
}
