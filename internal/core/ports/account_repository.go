package ports

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations enforce email uniqueness and return domain.ErrEmailExists
// on conflict and domain.ErrUserNotFound when a lookup misses.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// ListExcept returns every account other than id, without password hashes.
	ListExcept(ctx context.Context, id string) ([]domain.Account, error)
	// Update merges the non-nil fields of update and returns the stored result.
	Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error)
}
