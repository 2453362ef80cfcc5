package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type fakeMessageRepository struct {
	messages []*entity.ChatMessage
}

func (f *fakeMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	return nil
}

func (f *fakeMessageRepository) CreatePair(ctx context.Context, userMessage, assistantMessage *entity.ChatMessage) error {
	return nil
}

func (f *fakeMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.messages)), nil
}

func (f *fakeMessageRepository) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return nil
}

func chronologicalLog(n int) []*entity.ChatMessage {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	log := make([]*entity.ChatMessage, n)
	for i := 0; i < n; i++ {
		log[i] = &entity.ChatMessage{
			Id:        uuid.New(),
			Content:   fmt.Sprintf("message %d", i),
			Role:      "user",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return log
}

func TestBound(t *testing.T) {
	tests := []struct {
		name      string
		logLen    int
		window    int
		wantLen   int
		wantFirst string
	}{
		{"log longer than window", 75, 20, 20, "message 55"},
		{"log shorter than window", 10, 20, 10, "message 0"},
		{"log equals window", 20, 20, 20, "message 0"},
		{"empty log", 0, 20, 0, ""},
		{"window of fifty", 75, 50, 50, "message 25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := chronologicalLog(tt.logLen)
			got := Bound(log, tt.window)

			if len(got) != tt.wantLen {
				t.Fatalf("got %d messages, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if got[0].Content != tt.wantFirst {
				t.Errorf("first message = %q, want %q", got[0].Content, tt.wantFirst)
			}
			// order preserved
			for i := 1; i < len(got); i++ {
				if !got[i].CreatedAt.After(got[i-1].CreatedAt) {
					t.Errorf("messages out of order at %d", i)
				}
			}
		})
	}
}

func TestLoaderBoundsRepositoryLog(t *testing.T) {
	repo := &fakeMessageRepository{messages: chronologicalLog(30)}
	loader := NewLoader(repo, 20)

	got, err := loader.Load(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("got %d messages, want 20", len(got))
	}
	if got[0].Content != "message 10" {
		t.Errorf("first message = %q, want the suffix start", got[0].Content)
	}
}

func TestLoaderDefaultWindow(t *testing.T) {
	repo := &fakeMessageRepository{messages: chronologicalLog(40)}
	loader := NewLoader(repo, 0)

	got, err := loader.Load(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != defaultWindow {
		t.Errorf("got %d messages, want default window %d", len(got), defaultWindow)
	}
}
