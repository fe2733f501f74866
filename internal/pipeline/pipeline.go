// Package pipeline orchestrates the fetch → generate → dispatch cycle.
package pipeline

import (
	"context"
	"fmt"

	"github.com/lurelabs/tokenpulse/internal/content"
	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/lurelabs/tokenpulse/internal/social"
	"github.com/lurelabs/tokenpulse/internal/storage"
	"github.com/rs/zerolog/log"
)

// Pipeline runs the content generation and distribution cycle. All state
// transitions are carried in the returned reports; the pipeline itself
// keeps no mutable posting state.
type Pipeline struct {
	store      *storage.Store
	generator  *content.Generator
	dispatcher *social.Dispatcher
	platforms  []models.Platform
	dryRun     bool
}

// Config holds the pipeline configuration.
type Config struct {
	Platforms []models.Platform
	DryRun    bool
}

// NewPipeline creates a new pipeline.
func NewPipeline(store *storage.Store, generator *content.Generator, dispatcher *social.Dispatcher, cfg Config) *Pipeline {
	return &Pipeline{
		store:      store,
		generator:  generator,
		dispatcher: dispatcher,
		platforms:  cfg.Platforms,
		dryRun:     cfg.DryRun,
	}
}

// Report summarizes one token's trip through the pipeline.
type Report struct {
	TokenSymbol string                    `json:"token_symbol"`
	TokenName   string                    `json:"token_name"`
	Messages    []models.GeneratedMessage `json:"messages"`
	Outcomes    []models.PostOutcome      `json:"outcomes,omitempty"`
	Skipped     bool                      `json:"skipped,omitempty"`
	SkipReason  string                    `json:"skip_reason,omitempty"`
}

// Run fetches the latest token snapshots, generates a message for each, and
// dispatches it to every configured platform. Tokens failing the generation
// precondition are reported as skipped; they never abort the cycle.
func (p *Pipeline) Run(ctx context.Context, limit int) ([]Report, error) {
	tokens, err := p.store.GetLatestTokens(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tokens: %w", err)
	}

	if len(tokens) == 0 {
		log.Info().Msg("No tokens to process")
		return nil, nil
	}

	log.Info().Int("tokens", len(tokens)).Bool("dry_run", p.dryRun).Msg("Running posting cycle")

	reports := make([]Report, 0, len(tokens))
	for i := range tokens {
		reports = append(reports, p.process(ctx, &tokens[i]))
	}

	return reports, nil
}

// Preview generates messages for the latest tokens without dispatching or
// consuming any quota.
func (p *Pipeline) Preview(ctx context.Context, limit int) ([]Report, error) {
	tokens, err := p.store.GetLatestTokens(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tokens: %w", err)
	}

	reports := make([]Report, 0, len(tokens))
	for i := range tokens {
		token := &tokens[i]
		report := Report{TokenSymbol: token.Symbol, TokenName: token.Name}

		messages, err := p.generator.Generate(ctx, token)
		if err != nil {
			report.Skipped = true
			report.SkipReason = err.Error()
		} else {
			report.Messages = messages
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (p *Pipeline) process(ctx context.Context, token *models.TokenRecord) Report {
	report := Report{TokenSymbol: token.Symbol, TokenName: token.Name}

	messages, err := p.generator.Generate(ctx, token)
	if err != nil {
		log.Warn().Err(err).Str("symbol", token.Symbol).Msg("Skipping token")
		report.Skipped = true
		report.SkipReason = err.Error()
		return report
	}
	report.Messages = messages

	if p.dryRun {
		log.Info().Str("symbol", token.Symbol).Msg("Dry run, skipping dispatch")
		return report
	}

	for _, msg := range messages {
		for _, platform := range p.platforms {
			outcome := p.dispatcher.Post(ctx, msg, platform, nil)
			report.Outcomes = append(report.Outcomes, outcome)
		}
	}

	p.persist(ctx, token, report)

	return report
}

// persist records the cycle outcome; storage problems are logged, not fatal.
func (p *Pipeline) persist(ctx context.Context, token *models.TokenRecord, report Report) {
	posted := false
	for _, o := range report.Outcomes {
		if o.Success {
			posted = true
			break
		}
	}

	record := &models.ProcessedPost{
		TokenSymbol: token.Symbol,
		TokenName:   token.Name,
		Messages:    report.Messages,
		Outcomes:    report.Outcomes,
		Posted:      posted,
	}

	if err := p.store.SaveProcessed(ctx, record); err != nil {
		log.Error().Err(err).Str("symbol", token.Symbol).Msg("Failed to save processed post")
	}
}
