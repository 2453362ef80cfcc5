package service

import (
	"context"
	"testing"
	"time"

	"faq-chat-be/internal/constant"
	"faq-chat-be/internal/dto"
	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/contract"
	"faq-chat-be/internal/repository/memory"
	"faq-chat-be/internal/repository/specification"
	"faq-chat-be/pkg/llm"
	"faq-chat-be/pkg/retrieval"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/history"
	"faq-chat-be/pkg/retrieval/search"

	"github.com/google/uuid"
)

type fakeSessionRepository struct {
	session   *entity.ChatSession
	deletedId uuid.UUID
}

var (
	_ contract.ChatSessionRepository = (*fakeSessionRepository)(nil)
	_ contract.ChatMessageRepository = (*fakeMessageRepository)(nil)
)

func (f *fakeSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	f.session = session
	return nil
}

func (f *fakeSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	return nil
}

func (f *fakeSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return f.session, nil
}

func (f *fakeSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	if f.session == nil {
		return nil, nil
	}
	return []*entity.ChatSession{f.session}, nil
}

func (f *fakeSessionRepository) Delete(ctx context.Context, sessionId uuid.UUID) error {
	f.deletedId = sessionId
	f.session = nil
	return nil
}

type fakeMessageRepository struct {
	messages []*entity.ChatMessage
	pairUser *entity.ChatMessage
	pairBot  *entity.ChatMessage
}

func (f *fakeMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepository) CreatePair(ctx context.Context, userMessage, assistantMessage *entity.ChatMessage) error {
	f.pairUser = userMessage
	f.pairBot = assistantMessage
	f.messages = append(f.messages, userMessage, assistantMessage)
	return nil
}

func (f *fakeMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	if len(f.messages) == 0 {
		return nil, nil
	}
	return f.messages[0], nil
}

func (f *fakeMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.messages)), nil
}

func (f *fakeMessageRepository) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	f.messages = nil
	return nil
}

type fakeLLM struct {
	response string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, nil
}

type fakeSearcher struct {
	hits []search.VectorHit
}

func (f *fakeSearcher) Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]search.VectorHit, error) {
	return f.hits, nil
}

type serviceFixture struct {
	service  IChatService
	sessions *fakeSessionRepository
	messages *fakeMessageRepository
	cache    *memory.EvidenceCache
	session  *entity.ChatSession
	userId   uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	userId := uuid.New()
	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Unnamed session",
		CreatedAt: time.Now(),
	}

	sessions := &fakeSessionRepository{session: session}
	messages := &fakeMessageRepository{}
	cache := memory.NewEvidenceCache()

	provider := &fakeLLM{response: "generated answer"}
	searcher := &fakeSearcher{hits: []search.VectorHit{
		{Id: "doc-1", PageContent: "vacation policy text", Metadata: "handbook.md", Score: 0.91},
	}}
	orchestrator := retrieval.NewOrchestrator(
		provider,
		aggregate.NewAggregator(nil, searcher, 5, nil),
		nil,
	)

	return &serviceFixture{
		service: NewChatService(
			sessions,
			messages,
			orchestrator,
			provider,
			history.NewLoader(messages, 20),
			cache,
			nil,
			"faq",
			nil,
		),
		sessions: sessions,
		messages: messages,
		cache:    cache,
		session:  session,
		userId:   userId,
	}
}

func TestDeleteSessionRemovesSessionRow(t *testing.T) {
	f := newServiceFixture(t)
	f.cache.Save(f.session.Id.String(), &aggregate.AggregatedEvidence{AnswerText: "old"})

	err := f.service.DeleteSession(context.Background(), f.userId, &dto.DeleteSessionRequest{
		ChatSessionId: f.session.Id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.sessions.deletedId != f.session.Id {
		t.Errorf("session repository delete called with %s, want %s", f.sessions.deletedId, f.session.Id)
	}
	if _, found := f.cache.Get(f.session.Id.String()); found {
		t.Error("evidence cache entry must be removed with the session")
	}

	listed, err := f.service.GetAllSessions(context.Background(), f.userId)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("deleted session still listed: %d sessions", len(listed))
	}
}

func TestDeleteSessionRejectsForeignSession(t *testing.T) {
	f := newServiceFixture(t)
	f.sessions.session = nil // ownership lookup finds nothing

	err := f.service.DeleteSession(context.Background(), f.userId, &dto.DeleteSessionRequest{
		ChatSessionId: uuid.New(),
	})
	if err == nil {
		t.Fatal("expected an error for a session the caller does not own")
	}
	if f.sessions.deletedId != uuid.Nil {
		t.Error("delete must not reach the repository without ownership")
	}
}

func TestGetSessionEvidenceReturnsCachedEvidence(t *testing.T) {
	f := newServiceFixture(t)
	want := &aggregate.AggregatedEvidence{AnswerText: "cached answer"}
	f.cache.Save(f.session.Id.String(), want)

	got, err := f.service.GetSessionEvidence(context.Background(), f.userId, f.session.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("evidence = %+v, want the cached snapshot", got)
	}
}

func TestGetSessionEvidenceEmptyCache(t *testing.T) {
	f := newServiceFixture(t)

	got, err := f.service.GetSessionEvidence(context.Background(), f.userId, f.session.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("evidence = %+v, want nil for an empty cache", got)
	}
}

func TestSendChatPersistsOrderedPairAndCachesEvidence(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.service.SendChat(context.Background(), f.userId, access.RoleEmployee, &dto.SendChatRequest{
		ChatSessionId: f.session.Id,
		Content:       "how many vacation days do I get?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.messages.pairUser == nil || f.messages.pairBot == nil {
		t.Fatal("user and assistant messages must be written as a pair")
	}
	if f.messages.pairUser.Role != constant.ChatMessageRoleUser {
		t.Errorf("first message role = %s", f.messages.pairUser.Role)
	}
	gap := f.messages.pairBot.CreatedAt.Sub(f.messages.pairUser.CreatedAt)
	if gap <= 0 || gap > time.Millisecond {
		t.Errorf("assistant timestamp offset = %s, want a tiebreaker of at most 1ms", gap)
	}
	if len(f.messages.pairBot.ContextSnapshot) == 0 {
		t.Error("assistant message must carry the evidence snapshot")
	}

	if res.Reply.Content != "generated answer" {
		t.Errorf("reply = %q", res.Reply.Content)
	}
	if _, found := f.cache.Get(f.session.Id.String()); !found {
		t.Error("evidence must be cached for the session after a send")
	}
}
