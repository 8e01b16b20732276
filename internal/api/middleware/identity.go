package middleware

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

type accountKey struct{}

// ContextWithAccount attaches the authenticated account to ctx. The stored
// value is a copy, so handlers cannot mutate what later middleware sees.
func ContextWithAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a.Public())
}

// AccountFrom returns the account attached by the Auth guard.
func AccountFrom(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(accountKey{}).(domain.Account)
	return a, ok
}
