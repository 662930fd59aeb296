package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Topic    TopicConfig
	Split    SplitConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EmbedMessageTopic  string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
}

type AIConfig struct {
	EmbeddingProvider    string // "gemini" or "ollama"
	OllamaBaseURL        string
	OllamaModel          string
	GeminiEmbeddingModel string
	LLMProvider          string // "ollama", "openai"
	LLMModel             string // e.g. "llama3", "qwen2.5"
	OpenAIBaseURL        string // empty = api.openai.com
}

// TopicConfig tunes the topic shift classifier.
type TopicConfig struct {
	SimilarityThreshold    float64
	MinMessagesBeforeSplit int
	EmbeddingWindow        int
	EmbeddingDecay         float64
	UseLLMConfirmation     bool
}

// SplitConfig tunes the split orchestrator.
type SplitConfig struct {
	AutoTitle             bool
	IncludeContextSummary bool
	MaxContextMessages    int
	SummaryMaxTokens      int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EmbedMessageTopic:  getEnv("EMBED_MESSAGE_TOPIC_NAME", "EMBED_CHAT_MESSAGE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:          getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", ""),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
		},
		Topic: TopicConfig{
			SimilarityThreshold:    getEnvAsFloat("TOPIC_SIMILARITY_THRESHOLD", 0.65),
			MinMessagesBeforeSplit: getEnvAsInt("TOPIC_MIN_MESSAGES_BEFORE_SPLIT", 3),
			EmbeddingWindow:        getEnvAsInt("TOPIC_EMBEDDING_WINDOW", 5),
			EmbeddingDecay:         getEnvAsFloat("TOPIC_EMBEDDING_DECAY", 0.8),
			UseLLMConfirmation:     getEnvAsBool("TOPIC_USE_LLM_CONFIRMATION", true),
		},
		Split: SplitConfig{
			AutoTitle:             getEnvAsBool("SPLIT_AUTO_TITLE", true),
			IncludeContextSummary: getEnvAsBool("SPLIT_INCLUDE_CONTEXT_SUMMARY", true),
			MaxContextMessages:    getEnvAsInt("SPLIT_MAX_CONTEXT_MESSAGES", 10),
			SummaryMaxTokens:      getEnvAsInt("SPLIT_SUMMARY_MAX_TOKENS", 200),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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
