package ports

import (
	"context"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// SendMessageInput is the DTO passed from the transport layer to MessageService.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Text       string
	Image      string // optional data URI
}

// MessageService drives direct messaging between accounts.
type MessageService interface {
	Contacts(ctx context.Context, selfID string) ([]domain.Account, error)
	Thread(ctx context.Context, selfID, peerID string) ([]domain.Message, error)
	Send(ctx context.Context, in SendMessageInput) (*domain.Message, error)
}
