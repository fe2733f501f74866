// TokenPulse - token market-data to social posts
// Watches collected token snapshots and distributes generated posts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lurelabs/tokenpulse/internal/api"
	"github.com/lurelabs/tokenpulse/internal/config"
	"github.com/lurelabs/tokenpulse/internal/content"
	"github.com/lurelabs/tokenpulse/internal/grok"
	"github.com/lurelabs/tokenpulse/internal/pipeline"
	"github.com/lurelabs/tokenpulse/internal/scheduler"
	"github.com/lurelabs/tokenpulse/internal/social"
	"github.com/lurelabs/tokenpulse/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("TokenPulse - Starting posting engine")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Initialize storage
	store, err := storage.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer store.Close(ctx)

	// Initialize Grok LLM client
	var llmClient *grok.Client
	if cfg.XAIAPIKey != "" {
		llmClient = grok.NewClient(grok.Config{
			APIKey:   cfg.XAIAPIKey,
			Endpoint: cfg.XAIEndpoint,
			Model:    cfg.GrokModel,
			Timeout:  cfg.LLMTimeout,
		})
		log.Info().Str("model", cfg.GrokModel).Msg("Grok LLM client initialized")
	} else {
		log.Warn().Msg("Grok client not initialized (no API key)")
	}

	// Initialize content generator
	generator := content.NewGenerator(llmClient)
	log.Info().Msg("Content generator initialized")

	// Initialize platform rules and rate limiting
	registry := social.DefaultRegistry()
	limiter := social.NewRateLimiter(registry)

	// Initialize platform adapters where credentials exist
	var adapters []social.Adapter
	if cfg.TwitterBearerToken != "" {
		adapters = append(adapters, social.NewTwitterAdapter(social.TwitterConfig{
			BearerToken: cfg.TwitterBearerToken,
		}))
		log.Info().Msg("Twitter adapter initialized")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		adapters = append(adapters, social.NewTelegramAdapter(social.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
		}))
		log.Info().Msg("Telegram adapter initialized")
	}
	adapters = append(adapters, social.NewDiscordAdapter(social.DiscordConfig{
		BotToken:  cfg.DiscordBotToken,
		ChannelID: cfg.DiscordChannelID,
		Strict:    cfg.Strict,
	}))

	dispatcher := social.NewDispatcher(registry, limiter, cfg.Strict, adapters...)
	log.Info().Int("adapters", len(adapters)).Msg("Dispatcher initialized")

	// Initialize pipeline
	pipe := pipeline.NewPipeline(store, generator, dispatcher, pipeline.Config{
		Platforms: cfg.Platforms,
		DryRun:    cfg.DryRun,
	})
	log.Info().Msg("Pipeline initialized")

	// Initialize scheduler
	sched := scheduler.NewScheduler(pipe, cfg.PollInterval, cfg.BatchSize)
	log.Info().Msg("Scheduler initialized")

	// Initialize API server
	apiServer := api.NewServer(store, pipe, sched, cfg.HTTPAddr)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start all services
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("API server error")
		}
	}()

	sched.Start()

	log.Info().
		Str("api", cfg.HTTPAddr).
		Bool("dry_run", cfg.DryRun).
		Msg("TokenPulse engine running")

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx := context.Background()
	sched.Stop()
	apiServer.Shutdown(shutdownCtx)

	log.Info().Msg("TokenPulse engine stopped")
}
