package ports

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenVerifier validates a signed token. It fails with domain.ErrTokenExpired
// or domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Claim, error)
}

// TokenIssuer signs time-boxed tokens bound to one subject.
type TokenIssuer interface {
	TokenVerifier
	Issue(subject string) (string, domain.Claim, error)
}

// RefreshTokenStore tracks live refresh tokens by their token ID so each one
// can be used exactly once.
type RefreshTokenStore interface {
	Save(ctx context.Context, claim domain.Claim) error
	// Consume atomically removes the token and returns its subject. Unknown
	// or already used tokens fail with domain.ErrRefreshTokenInvalid.
	Consume(ctx context.Context, tokenID string) (string, error)
	Revoke(ctx context.Context, tokenID string) error
}
