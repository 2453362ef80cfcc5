package bootstrap

import (
	"log"
	"time"

	"faq-chat-be/internal/config"
	"faq-chat-be/internal/controller"
	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/internal/repository/implementation"
	"faq-chat-be/internal/repository/memory"
	"faq-chat-be/internal/service"
	"faq-chat-be/pkg/agent"
	"faq-chat-be/pkg/embedding"
	"faq-chat-be/pkg/llm/ollama"
	"faq-chat-be/pkg/retrieval"
	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/history"
	"faq-chat-be/pkg/retrieval/search"

	pktNats "faq-chat-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	ChatController controller.IChatController

	Logger        logger.ILogger
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Repositories
	sessionRepo := implementation.NewChatSessionRepository(db)
	messageRepo := implementation.NewChatMessageRepository(db)
	embeddingRepo := implementation.NewDocumentEmbeddingRepository(db)
	evidenceCache := memory.NewEvidenceCache()

	// Generation and embedding capabilities
	llmProvider := ollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)

	// Evidence sources, selected per configuration
	var agentSource aggregate.AnswerSource
	if cfg.Agent.Enabled {
		agentClient := agent.NewHTTPClient(cfg.Agent.ProjectURL, cfg.Agent.APIKey)
		runner := agent.NewRunner(
			agentClient,
			cfg.Agent.AssistantId,
			time.Duration(cfg.Retrieval.PollInterval)*time.Second,
			cfg.Retrieval.MaxAttempts,
			sysLogger,
		)
		agentSource = &retrieval.AgentAnswerSource{Runner: runner}
		log.Printf("[INFO] Agent evidence source enabled (%s)", cfg.Agent.ProjectURL)
	}

	var searcher search.VectorSearcher
	if cfg.Search.Enabled {
		if cfg.Search.Backend == "remote" {
			searcher = search.NewRemoteSearcher(cfg.Search.Endpoint, cfg.Search.IndexName, cfg.Search.APIKey)
			log.Printf("[INFO] Vector evidence source: REMOTE (%s)", cfg.Search.IndexName)
		} else {
			searcher = search.NewStoreSearcher(embeddingProvider, embeddingRepo)
			log.Printf("[INFO] Vector evidence source: PGVECTOR")
		}
	}

	aggregator := aggregate.NewAggregator(agentSource, searcher, cfg.Search.TopK, sysLogger)
	orchestrator := retrieval.NewOrchestrator(llmProvider, aggregator, sysLogger)
	historyLoader := history.NewLoader(messageRepo, cfg.Retrieval.HistoryWindow)

	// NATS audit bus (best effort)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	var publisher service.EventPublisher
	if natsPub != nil {
		publisher = natsPub
	}

	chatService := service.NewChatService(
		sessionRepo,
		messageRepo,
		orchestrator,
		llmProvider,
		historyLoader,
		evidenceCache,
		publisher,
		cfg.Retrieval.Profile,
		sysLogger,
	)

	return &Container{
		ChatController: controller.NewChatController(chatService),
		Logger:         sysLogger,
		NatsPublisher:  natsPub,
	}
}
