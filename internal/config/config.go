package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Keys APIKeys
	Ai   AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	RedisURL           string // empty disables cross-instance fan-out
	EventTopic         string
	SessionTTL         time.Duration
	MaxImageBytes      int
	OtelEnabled        bool
	OtelEndpoint       string
}

type APIKeys struct {
	PlantNet    string
	OpenAI      string
	HuggingFace string
}

type AIConfig struct {
	PlantNetBaseURL string
	PlantNetProject string
	OpenAIBaseURL   string
	VisionModel     string
	LLMProvider     string // "openai", "huggingface" or "ollama"
	LLMModel        string
	OllamaBaseURL   string
	RequestTimeout  time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/plantpal.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/plantpal-ws.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			EventTopic:         getEnv("EVENT_TOPIC", "plantpal.session.events"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			MaxImageBytes:      getEnvAsInt("MAX_IMAGE_BYTES", 10*1024*1024),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Keys: APIKeys{
			PlantNet:    getEnv("PLANTNET_API_KEY", ""),
			OpenAI:      getEnv("OPENAI_API_KEY", ""),
			HuggingFace: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			PlantNetBaseURL: getEnv("PLANTNET_BASE_URL", "https://my-api.plantnet.org"),
			PlantNetProject: getEnv("PLANTNET_PROJECT", "weurope"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			VisionModel:     getEnv("VISION_MODEL", "gpt-4o"),
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			LLMModel:        getEnv("LLM_MODEL", "gpt-4o"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RequestTimeout:  getEnvAsDuration("AI_REQUEST_TIMEOUT", 30*time.Second),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("45s", "2h").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
