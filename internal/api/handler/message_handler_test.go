package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chatapp/realtime-chat/internal/api/middleware"
	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
)

type stubMessageService struct {
	contactsFn func(ctx context.Context, selfID string) ([]domain.Account, error)
	threadFn   func(ctx context.Context, selfID, peerID string) ([]domain.Message, error)
	sendFn     func(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error)
}

func (s *stubMessageService) Contacts(ctx context.Context, selfID string) ([]domain.Account, error) {
	return s.contactsFn(ctx, selfID)
}

func (s *stubMessageService) Thread(ctx context.Context, selfID, peerID string) ([]domain.Message, error) {
	return s.threadFn(ctx, selfID, peerID)
}

func (s *stubMessageService) Send(ctx context.Context, in ports.SendMessageInput) (*domain.Message, error) {
	return s.sendFn(ctx, in)
}

func asAccount(req *http.Request, id string) *http.Request {
	return req.WithContext(middleware.ContextWithAccount(req.Context(), domain.Account{ID: id}))
}

func TestMessageHandler_Contacts(t *testing.T) {
	e := newTestEcho()
	h := NewMessageHandler(&stubMessageService{
		contactsFn: func(_ context.Context, selfID string) ([]domain.Account, error) {
			if selfID != "alice" {
				t.Fatalf("unexpected self %s", selfID)
			}
			return []domain.Account{{ID: "bob"}, {ID: "carol"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := h.Contacts(e.NewContext(asAccount(httptest.NewRequest(http.MethodGet, "/api/messages/users", nil), "alice"), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got []domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(got))
	}
}

func TestMessageHandler_Thread(t *testing.T) {
	e := newTestEcho()
	h := NewMessageHandler(&stubMessageService{
		threadFn: func(_ context.Context, selfID, peerID string) ([]domain.Message, error) {
			if selfID != "alice" || peerID != "bob" {
				t.Fatalf("unexpected pair %s/%s", selfID, peerID)
			}
			return []domain.Message{}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(asAccount(httptest.NewRequest(http.MethodGet, "/", nil), "alice"), rec)
	c.SetPath("/api/messages/:id")
	c.SetParamNames("id")
	c.SetParamValues("bob")

	if err := h.Thread(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestMessageHandler_Send(t *testing.T) {
	e := newTestEcho()
	h := NewMessageHandler(&stubMessageService{
		sendFn: func(_ context.Context, in ports.SendMessageInput) (*domain.Message, error) {
			if in.SenderID != "alice" || in.ReceiverID != "bob" || in.Text != "hi" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Message{ID: "m1", SenderID: in.SenderID, ReceiverID: in.ReceiverID, Text: in.Text}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(asAccount(jsonRequest(http.MethodPost, "/", `{"text":"hi"}`), "alice"), rec)
	c.SetParamNames("id")
	c.SetParamValues("bob")

	if err := h.Send(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "m1" || got.Text != "hi" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestMessageHandler_Send_PropagatesDomainErrors(t *testing.T) {
	e := newTestEcho()
	h := NewMessageHandler(&stubMessageService{
		sendFn: func(context.Context, ports.SendMessageInput) (*domain.Message, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	c := e.NewContext(asAccount(jsonRequest(http.MethodPost, "/", `{"text":"hi"}`), "alice"), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := h.Send(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMessageHandler_Send_MalformedBody(t *testing.T) {
	e := newTestEcho()
	h := NewMessageHandler(&stubMessageService{})

	c := e.NewContext(asAccount(jsonRequest(http.MethodPost, "/", `{"text":`), "alice"), httptest.NewRecorder())
	err := h.Send(c)
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
