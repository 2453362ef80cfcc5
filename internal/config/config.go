package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Agent     AgentConfig
	Search    SearchConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

// AgentConfig points at the remote conversational search agent service.
type AgentConfig struct {
	Enabled     bool
	ProjectURL  string
	AssistantId string
	APIKey      string
}

// SearchConfig points at the vector similarity search capability.
// Backend selects between the remote index ("remote") and the local
// pgvector store ("pgvector").
type SearchConfig struct {
	Enabled   bool
	Backend   string
	Endpoint  string
	IndexName string
	APIKey    string
	TopK      int
}

type AIConfig struct {
	OllamaBaseURL  string
	LLMModel       string
	EmbeddingModel string
}

// RetrievalConfig tunes the orchestration engine.
type RetrievalConfig struct {
	Profile       string // "faq", "web" or "data"
	HistoryWindow int
	PollInterval  int // seconds between agent run status fetches
	MaxAttempts   int
}

// profileDefaults maps a retrieval profile to its evidence source set and
// history window. Explicit env values override these.
type profileDefaults struct {
	agentEnabled  bool
	searchEnabled bool
	historyWindow int
}

var profiles = map[string]profileDefaults{
	"web":  {agentEnabled: true, searchEnabled: false, historyWindow: 50},
	"faq":  {agentEnabled: true, searchEnabled: true, historyWindow: 20},
	"data": {agentEnabled: false, searchEnabled: true, historyWindow: 20},
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	profile := getEnv("RETRIEVAL_PROFILE", "faq")
	defaults, ok := profiles[profile]
	if !ok {
		log.Printf("Warn: unknown retrieval profile %q, using faq defaults", profile)
		defaults = profiles["faq"]
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Agent: AgentConfig{
			Enabled:     getEnvAsBool("AGENT_SEARCH_ENABLED", defaults.agentEnabled),
			ProjectURL:  getEnv("AGENT_PROJECT_URL", ""),
			AssistantId: getEnv("AGENT_ASSISTANT_ID", ""),
			APIKey:      getEnv("AGENT_API_KEY", ""),
		},
		Search: SearchConfig{
			Enabled:   getEnvAsBool("VECTOR_SEARCH_ENABLED", defaults.searchEnabled),
			Backend:   getEnv("VECTOR_SEARCH_BACKEND", "pgvector"),
			Endpoint:  getEnv("VECTOR_SEARCH_ENDPOINT", ""),
			IndexName: getEnv("VECTOR_SEARCH_INDEX", "documents"),
			APIKey:    getEnv("VECTOR_SEARCH_API_KEY", ""),
			TopK:      getEnvAsInt("VECTOR_SEARCH_TOP_K", 10),
		},
		Ai: AIConfig{
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:       getEnv("LLM_MODEL", "llama3"),
			EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Retrieval: RetrievalConfig{
			Profile:       profile,
			HistoryWindow: getEnvAsInt("RETRIEVAL_HISTORY_WINDOW", defaults.historyWindow),
			PollInterval:  getEnvAsInt("AGENT_POLL_INTERVAL_SECONDS", 1),
			MaxAttempts:   getEnvAsInt("AGENT_POLL_MAX_ATTEMPTS", 60),
		},
	}
}

// Validate fails fast on missing identifiers for every enabled evidence
// source, before any remote call is attempted.
func (c *Config) Validate() error {
	if c.Agent.Enabled {
		if c.Agent.ProjectURL == "" {
			return fmt.Errorf("configuration: AGENT_PROJECT_URL is required when agent search is enabled")
		}
		if c.Agent.AssistantId == "" {
			return fmt.Errorf("configuration: AGENT_ASSISTANT_ID is required when agent search is enabled")
		}
	}
	if c.Search.Enabled && c.Search.Backend == "remote" {
		if c.Search.Endpoint == "" {
			return fmt.Errorf("configuration: VECTOR_SEARCH_ENDPOINT is required for the remote search backend")
		}
		if c.Search.APIKey == "" {
			return fmt.Errorf("configuration: VECTOR_SEARCH_API_KEY is required for the remote search backend")
		}
	}
	if !c.Agent.Enabled && !c.Search.Enabled {
		return fmt.Errorf("configuration: at least one evidence source must be enabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
