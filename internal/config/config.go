package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JwtSecret string
	LLM       string
}

type AIConfig struct {
	LLMProvider   string // "gateway" or "ollama"
	LLMModel      string
	LLMBaseURL    string
	OllamaBaseURL string
}

type AgentConfig struct {
	MaxRounds    int
	HistoryLimit int
	SessionStore string // "postgres" | "redis" | "memory"
	SessionTTL   time.Duration
	AuditTopic   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/agent_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JwtSecret: getEnv("JWT_SECRET", ""),
			LLM:       getEnv("LLM_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gateway"),
			LLMModel:      getEnv("LLM_MODEL", "google/gemini-2.5-flash"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Agent: AgentConfig{
			MaxRounds:    getEnvAsInt("AGENT_MAX_ROUNDS", 5),
			HistoryLimit: getEnvAsInt("AGENT_HISTORY_LIMIT", 20),
			SessionStore: getEnv("AGENT_SESSION_STORE", "postgres"),
			SessionTTL:   getEnvAsDuration("AGENT_SESSION_TTL", 30*time.Minute),
			AuditTopic:   getEnv("AGENT_AUDIT_TOPIC", "agent.tool.audit"),
		},
	}
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
