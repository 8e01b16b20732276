package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/pkg/imagedata"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

const messageFolder = "messages"

type MessageService struct {
	accounts ports.AccountRepository
	messages ports.MessageRepository
	images   ports.ImageStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewMessageService(
	accounts ports.AccountRepository,
	messages ports.MessageRepository,
	images ports.ImageStore,
	log zerolog.Logger,
) *MessageService {
	return &MessageService{
		accounts: accounts,
		messages: messages,
		images:   images,
		log:      log,
		now:      time.Now,
	}
}

// Contacts lists every account the caller can talk to, i.e. everyone but themselves.
func (s *MessageService) Contacts(ctx context.Context, selfID string) ([]domain.Account, error) {
	accounts, err := s.accounts.ListExcept(ctx, selfID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Public())
	}
	return out, nil
}

// Thread returns the conversation between selfID and peerID in both directions.
func (s *MessageService) Thread(ctx context.Context, selfID, peerID string) ([]domain.Message, error) {
	if _, err := s.accounts.FindByID(ctx, peerID); err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}

	msgs, err := s.messages.FindThread(ctx, selfID, peerID)
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// Send stores a new message. An attached image is uploaded first; the message
// is only written once the upload has succeeded.
func (s *MessageService) Send(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error) {
	text := strings.TrimSpace(in.Text)
	if in.SenderID == "" || in.ReceiverID == "" || (text == "" && in.Image == "") {
		return nil, domain.ErrRequiredFields
	}

	if _, err := s.accounts.FindByID(ctx, in.ReceiverID); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	var imageURL string
	if in.Image != "" {
		img, err := imagedata.Decode(in.Image)
		if err != nil {
			return nil, err
		}
		imageURL, err = s.images.Upload(ctx, messageFolder, img)
		if err != nil {
			return nil, fmt.Errorf("send message: %w", err)
		}
	}

	now := s.now().UTC()
	created, err := s.messages.Create(ctx, &domain.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       text,
		ImageURL:   imageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	metrics.MessagesSentTotal.WithLabelValues(messageKind(created)).Inc()
	s.log.Debug().
		Str("message_id", created.ID).
		Str("sender_id", created.SenderID).
		Str("receiver_id", created.ReceiverID).
		Bool("has_image", created.ImageURL != "").
		Msg("message stored")

	// TODO: fan the new message out to the receiver once a push channel exists.
	return created, nil
}

func messageKind(m *domain.Message) string {
	switch {
	case m.Text != "" && m.ImageURL != "":
		return "mixed"
	case m.ImageURL != "":
		return "image"
	default:
		return "text"
	}
}
