package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AnthropicAPIKey string
	DatabaseURL     string
	Neo4jURI        string
	Neo4jUser       string
	Neo4jPassword   string
	WorkerCount     int

	TranslationModel string
	SourceLanguage   string
	TargetLanguage   string

	// Session pause cooldown (§4.9, §9's canonical choice of the
	// configurable RunPod-style regime over the hard-coded 500/12-min one).
	PauseEnabled         bool
	PauseBatchSize       int
	PauseDurationMinutes int

	SessionEntryDelayMS   int
	GlossaryTimeoutSecond int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/game_localizer?sslmode=disable"),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 8),

		TranslationModel: getEnv("TRANSLATION_MODEL", "claude-sonnet-4-20250514"),
		SourceLanguage:   getEnv("SOURCE_LANGUAGE", "ja"),
		TargetLanguage:   getEnv("TARGET_LANGUAGE", "en"),

		PauseEnabled:         getEnvBool("PAUSE_ENABLED", true),
		PauseBatchSize:       getEnvInt("PAUSE_BATCH_SIZE", 150),
		PauseDurationMinutes: getEnvInt("PAUSE_DURATION_MINUTES", 5),

		SessionEntryDelayMS:   getEnvInt("SESSION_ENTRY_DELAY_MS", 500),
		GlossaryTimeoutSecond: getEnvInt("GLOSSARY_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
