package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
)

type stubMessageRepo struct {
	mu        sync.Mutex
	msgs      []domain.Message
	createErr error
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *m
	clone.ID = fmt.Sprintf("msg-%d", len(r.msgs)+1)
	r.msgs = append(r.msgs, clone)
	return &clone, nil
}

// FindThread mirrors the $or query of the Mongo repository.
func (r *stubMessageRepo) FindThread(_ context.Context, a, b string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.msgs {
		if m.InThread(a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type messageFixture struct {
	svc    *MessageService
	repo   *stubAccountRepo
	msgs   *stubMessageRepo
	images *stubImageStore
	alice  string
	bob    string
	carol  string
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	f := &messageFixture{
		repo:   newStubAccountRepo(),
		msgs:   &stubMessageRepo{},
		images: &stubImageStore{},
	}
	f.svc = NewMessageService(f.repo, f.msgs, f.images, zerolog.Nop())

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for _, name := range []string{"alice", "bob", "carol"} {
		a, err := f.repo.Create(context.Background(), &domain.Account{Email: name + "@x.com", FullName: name, PasswordHash: "hashed:pw"})
		if err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		switch name {
		case "alice":
			f.alice = a.ID
		case "bob":
			f.bob = a.ID
		case "carol":
			f.carol = a.ID
		}
	}
	return f
}

func (f *messageFixture) send(t *testing.T, from, to, text string) *domain.Message {
	t.Helper()
	m, err := f.svc.Send(context.Background(), ports.SendMessageInput{SenderID: from, ReceiverID: to, Text: text})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	return m
}

func TestMessageService_Contacts_ExcludesSelf(t *testing.T) {
	f := newMessageFixture(t)

	contacts, err := f.svc.Contacts(context.Background(), f.alice)
	if err != nil {
		t.Fatalf("contacts failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	for _, c := range contacts {
		if c.ID == f.alice {
			t.Fatalf("caller must not be listed")
		}
		if c.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", c.ID)
		}
	}
}

func TestMessageService_Thread_IsSymmetric(t *testing.T) {
	f := newMessageFixture(t)

	f.send(t, f.alice, f.bob, "hi bob")
	f.send(t, f.bob, f.alice, "hi alice")
	f.send(t, f.alice, f.carol, "hi carol")
	f.send(t, f.alice, f.bob, "how are you?")

	fromAlice, err := f.svc.Thread(context.Background(), f.alice, f.bob)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}
	fromBob, err := f.svc.Thread(context.Background(), f.bob, f.alice)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}

	if len(fromAlice) != 3 || len(fromBob) != 3 {
		t.Fatalf("expected 3 messages each way, got %d and %d", len(fromAlice), len(fromBob))
	}
	for i := range fromAlice {
		if fromAlice[i].ID != fromBob[i].ID {
			t.Fatalf("threads differ at %d: %s vs %s", i, fromAlice[i].ID, fromBob[i].ID)
		}
		if !fromAlice[i].InThread(f.alice, f.bob) {
			t.Fatalf("foreign message in thread: %+v", fromAlice[i])
		}
	}
	if fromAlice[0].Text != "hi bob" || fromAlice[2].Text != "how are you?" {
		t.Fatalf("thread not ordered by creation time: %+v", fromAlice)
	}
}

func TestMessageService_Thread_EmptyIsNotNil(t *testing.T) {
	f := newMessageFixture(t)

	msgs, err := f.svc.Thread(context.Background(), f.alice, f.carol)
	if err != nil {
		t.Fatalf("thread failed: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestMessageService_Thread_UnknownPeer(t *testing.T) {
	f := newMessageFixture(t)

	if _, err := f.svc.Thread(context.Background(), f.alice, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMessageService_Send_WithImage(t *testing.T) {
	f := newMessageFixture(t)

	m, err := f.svc.Send(context.Background(), ports.SendMessageInput{
		SenderID:   f.alice,
		ReceiverID: f.bob,
		Image:      pngDataURI,
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if m.ImageURL == "" || m.Text != "" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if len(f.images.uploads) != 1 || f.images.uploads[0] != messageFolder {
		t.Fatalf("expected upload to %s, got %v", messageFolder, f.images.uploads)
	}
	if m.CreatedAt.IsZero() || !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Fatalf("timestamps not set: %+v", m)
	}
}

func TestMessageService_Send_Rejections(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Send(ctx, ports.SendMessageInput{SenderID: f.alice, ReceiverID: f.bob, Text: "   "}); !errors.Is(err, domain.ErrRequiredFields) {
		t.Fatalf("blank message: expected ErrRequiredFields, got %v", err)
	}
	if _, err := f.svc.Send(ctx, ports.SendMessageInput{SenderID: f.alice, ReceiverID: "ghost", Text: "hi"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("unknown receiver: expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.Send(ctx, ports.SendMessageInput{SenderID: f.alice, ReceiverID: f.bob, Image: "data:text/plain;base64,aGVsbG8="}); !errors.Is(err, domain.ErrInvalidImageFormat) {
		t.Fatalf("bad image: expected ErrInvalidImageFormat, got %v", err)
	}

	f.images.err = fmt.Errorf("%w: timeout", domain.ErrUpload)
	if _, err := f.svc.Send(ctx, ports.SendMessageInput{SenderID: f.alice, ReceiverID: f.bob, Text: "pic", Image: pngDataURI}); !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("upload failure: expected ErrUpload, got %v", err)
	}
	if len(f.msgs.msgs) != 0 {
		t.Fatalf("no message should have been stored, got %d", len(f.msgs.msgs))
	}
}
