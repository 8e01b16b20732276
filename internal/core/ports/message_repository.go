package ports

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// FindThread returns every message exchanged between a and b in either
	// direction, oldest first.
	FindThread(ctx context.Context, a, b string) ([]domain.Message, error)
}
