package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"faq-chat-be/internal/constant"
	"faq-chat-be/internal/dto"
	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/internal/repository/contract"
	"faq-chat-be/internal/repository/memory"
	"faq-chat-be/internal/repository/specification"
	"faq-chat-be/pkg/events"
	"faq-chat-be/pkg/llm"
	"faq-chat-be/pkg/retrieval"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/history"

	"github.com/google/uuid"
)

// EventPublisher is the audit-event sink. Publishing is best effort; a bus
// outage never fails a chat request.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, role access.Role, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetSessionEvidence(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*aggregate.AggregatedEvidence, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

type chatService struct {
	sessions        contract.ChatSessionRepository
	messages        contract.ChatMessageRepository
	orchestrator    *retrieval.Orchestrator
	llmProvider     llm.LLMProvider
	historyLoader   *history.Loader
	evidenceCache   *memory.EvidenceCache
	publisher       EventPublisher
	defaultChatType string
	log             logger.ILogger
}

func NewChatService(
	sessions contract.ChatSessionRepository,
	messages contract.ChatMessageRepository,
	orchestrator *retrieval.Orchestrator,
	llmProvider llm.LLMProvider,
	historyLoader *history.Loader,
	evidenceCache *memory.EvidenceCache,
	publisher EventPublisher,
	defaultChatType string,
	log logger.ILogger,
) IChatService {
	if defaultChatType == "" {
		defaultChatType = "faq"
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &chatService{
		sessions:        sessions,
		messages:        messages,
		orchestrator:    orchestrator,
		llmProvider:     llmProvider,
		historyLoader:   historyLoader,
		evidenceCache:   evidenceCache,
		publisher:       publisher,
		defaultChatType: defaultChatType,
		log:             log,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Unnamed session",
		CreatedAt: time.Now(),
	}

	if err := cs.sessions.Create(ctx, &chatSession); err != nil {
		return nil, err
	}

	cs.publishEvent(ctx, events.NewChatSessionCreated(chatSession.Id.String(), userId.String()))

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	chatSessions, err := cs.sessions.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	if _, err := cs.ownedSession(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	chatMessages, err := cs.messages.FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, m := range chatMessages {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return response, nil
}

// SendChat answers one user message: retrieve evidence, generate a grounded
// reply, persist both turns with the evidence snapshot.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, role access.Role, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, err := cs.ownedSession(ctx, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	pastMessages, err := cs.historyLoader.Load(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	chatType := request.ChatType
	if chatType == "" {
		chatType = cs.defaultChatType
	}

	result, err := cs.orchestrator.Retrieve(ctx, retrieval.Query{
		RawText:   request.Content,
		UserRole:  role,
		UserID:    userId.String(),
		SessionID: session.Id.String(),
		ChatType:  chatType,
	})
	if err != nil {
		return nil, err
	}

	answer, err := cs.generateAnswer(ctx, pastMessages, result.Context, request.Content)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(result.Evidence)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Content:       request.Content,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     now,
	}
	// One-millisecond offset keeps the pair ordered under created_at sorting
	// without fabricating a noticeably later timestamp.
	assistantMessage := entity.ChatMessage{
		Id:              uuid.New(),
		Content:         answer,
		Role:            constant.ChatMessageRoleAssistant,
		ChatSessionId:   session.Id,
		ContextSnapshot: snapshot,
		CreatedAt:       now.Add(time.Millisecond),
	}

	if err := cs.messages.CreatePair(ctx, &userMessage, &assistantMessage); err != nil {
		return nil, err
	}

	cs.evidenceCache.Save(session.Id.String(), result.Evidence)
	cs.publishEvent(ctx, events.NewRetrievalCompleted(
		session.Id.String(), userId.String(), request.Content,
		len(result.Evidence.Citations), len(result.Evidence.VectorHits),
	))

	citations := make([]dto.CitationDTO, 0, len(result.Evidence.Citations))
	for _, c := range result.Evidence.Citations {
		citations = append(citations, dto.CitationDTO{
			Title:   c.Title,
			Url:     c.Url,
			Snippet: c.Snippet,
			Domain:  c.Domain,
		})
	}

	return &dto.SendChatResponse{
		ChatSessionId: session.Id,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Content:   userMessage.Content,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Content:   assistantMessage.Content,
			Role:      assistantMessage.Role,
			CreatedAt: assistantMessage.CreatedAt,
		},
		Citations: citations,
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	session, err := cs.ownedSession(ctx, userId, request.ChatSessionId)
	if err != nil {
		return err
	}

	if err := cs.sessions.Delete(ctx, session.Id); err != nil {
		return err
	}
	cs.evidenceCache.Delete(session.Id.String())
	return nil
}

// GetSessionEvidence returns the cached evidence behind the session's latest
// reply, or nil when nothing is cached (expired or no chat sent yet).
func (cs *chatService) GetSessionEvidence(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*aggregate.AggregatedEvidence, error) {
	session, err := cs.ownedSession(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	evidence, found := cs.evidenceCache.Get(session.Id.String())
	if !found {
		return nil, nil
	}
	return evidence, nil
}

func (cs *chatService) ownedSession(ctx context.Context, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := cs.sessions.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}
	return session, nil
}

// generateAnswer runs the generation step over the assembled context.
func (cs *chatService) generateAnswer(ctx context.Context, pastMessages []*entity.ChatMessage, contextText, question string) (string, error) {
	chatHistory := make([]llm.Message, 0, len(pastMessages)+2)
	chatHistory = append(chatHistory, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.SystemPromptV1,
	})
	for _, m := range pastMessages {
		chatHistory = append(chatHistory, llm.Message{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	chatHistory = append(chatHistory, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question),
	})

	return cs.llmProvider.Chat(ctx, chatHistory, llm.WithTemperature(0.3))
}

func (cs *chatService) publishEvent(ctx context.Context, event events.Event) {
	if cs.publisher == nil {
		return
	}
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.log.Warn("chat_service", "audit event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
