package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string

	// OpenAI provider
	OpenAIAPIKey  string
	OpenAIBaseURL string // override for self-hosted gateways and tests
	ChatModel     string
	// Models tried in order when the primary chat model is unavailable.
	ChatFallbackModels []string
	STTModel           string
	TTSModel           string
	TTSVoice           string
	ImageModel         string
	ImageFallbackModel string
	RealtimeModel      string
	RealtimeVoice      string

	// Optional live weather enrichment
	WeatherAPIKey string
	WeatherLat    float64
	WeatherLon    float64

	// Optional YAML file overriding the embedded hotel knowledge base
	KnowledgeFile string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:               getEnvDefault("PORT", "8080"),
		AllowedOrigin:      getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		ChatModel:          getEnvDefault("OPENAI_CHAT_MODEL", "gpt-4.1-mini"),
		ChatFallbackModels: getEnvListDefault("OPENAI_CHAT_FALLBACK_MODELS", []string{"gpt-4o-mini"}),
		STTModel:           getEnvDefault("OPENAI_STT_MODEL", "whisper-1"),
		TTSModel:           getEnvDefault("OPENAI_TTS_MODEL", "tts-1"),
		TTSVoice:           getEnvDefault("OPENAI_TTS_VOICE", "alloy"),
		ImageModel:         getEnvDefault("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		ImageFallbackModel: getEnvDefault("OPENAI_IMAGE_FALLBACK_MODEL", "dall-e-3"),
		RealtimeModel:      getEnvDefault("OPENAI_REALTIME_MODEL", "gpt-4o-realtime-preview-2024-12-17"),
		RealtimeVoice:      getEnvDefault("OPENAI_REALTIME_VOICE", "alloy"),
		WeatherAPIKey:      os.Getenv("WEATHER_API_KEY"),
		WeatherLat:         getEnvFloatDefault("WEATHER_LAT", 53.8),
		WeatherLon:         getEnvFloatDefault("WEATHER_LON", 21.57),
		KnowledgeFile:      os.Getenv("KNOWLEDGE_FILE"),
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set; provider calls will fail until provided")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		slog.Warn("invalid float in env, using default", "key", key, "value", v)
	}
	return def
}
