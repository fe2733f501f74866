// Package config provides configuration management for TokenPulse.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// xAI/Grok settings
	XAIAPIKey   string
	XAIEndpoint string
	GrokModel   string
	LLMTimeout  time.Duration

	// MongoDB settings
	MongoURI string
	MongoDB  string

	// Twitter settings
	TwitterBearerToken string

	// Telegram settings
	TelegramBotToken string
	TelegramChatID   string

	// Discord settings
	DiscordBotToken  string
	DiscordChannelID string

	// Pipeline settings
	Platforms    []models.Platform
	PollInterval time.Duration
	BatchSize    int
	DryRun       bool

	// Strict makes misconfigured platform adapters fail dispatch instead
	// of silently skipping.
	Strict bool

	// Server settings
	HTTPAddr string
	Debug    bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		// xAI/Grok
		XAIAPIKey:   getEnv("XAI_API_KEY", ""),
		XAIEndpoint: getEnv("XAI_ENDPOINT", "https://api.x.ai/v1"),
		GrokModel:   getEnv("GROK_MODEL", "grok-2"),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		// MongoDB
		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "lure"),

		// Platform credentials
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:     getEnv("TELEGRAM_CHAT_ID", ""),
		DiscordBotToken:    getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID:   getEnv("DISCORD_CHANNEL_ID", ""),

		// Pipeline
		Platforms:    parsePlatforms(getEnv("PLATFORMS", "twitter,telegram,discord")),
		PollInterval: getEnvDuration("POLL_INTERVAL", 5*time.Minute),
		BatchSize:    getEnvInt("BATCH_SIZE", 1),
		DryRun:       getEnvBool("DRY_RUN", false),
		Strict:       getEnvBool("STRICT_ADAPTERS", false),

		// Server
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Debug:    getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate checks if required configuration is present.
func (c *Config) Validate() error {
	if c.XAIAPIKey == "" {
		log.Warn().Msg("XAI_API_KEY not set, posts will use the fallback template")
	}
	if c.TwitterBearerToken == "" {
		log.Warn().Msg("TWITTER_BEARER_TOKEN not set, twitter posting disabled")
	}
	if c.TelegramBotToken == "" || c.TelegramChatID == "" {
		log.Warn().Msg("Telegram credentials incomplete, telegram posting disabled")
	}
	if c.DiscordBotToken == "" || c.DiscordChannelID == "" {
		log.Warn().Msg("Discord credentials incomplete, discord posting disabled")
	}
	return nil
}

func parsePlatforms(raw string) []models.Platform {
	var platforms []models.Platform
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		platforms = append(platforms, models.Platform(p))
	}
	return platforms
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
