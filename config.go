package quizforge

import (
	"os"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	OpenAIKey      string
	OpenAIModel    string
	OpenAIEndpoint string
	Database       string
	SessionKey     string
}

// LoadConfig reads configuration from the environment, providing sensible
// defaults. A .env file is honored when present.
func LoadConfig() Config {
	_ = godotenv.Load()
	return Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIEndpoint: os.Getenv("OPENAI_API_ENDPOINT"),
		Database:       getEnv("QUIZFORGE_DB", "./quizforge.db"),
		SessionKey:     getEnv("SESSION_KEY", "quizforge-dev-session-key"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
