// Package content provides promotional post generation for TokenPulse.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/lurelabs/tokenpulse/internal/grok"
	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
)

const systemPrompt = "You are a crypto analyst who writes concise, informative tweets about tokens. Keep the tone cool and professional."

// Call-to-action phrases the prompt asks the model to rotate through.
var actionPhrases = []string{"ape?", "fomo?", "stack?"}

// Generator creates short promotional messages from token snapshots.
type Generator struct {
	llm *grok.Client
}

// NewGenerator creates a new content generator. A nil llm is allowed; every
// generation then takes the fallback path.
func NewGenerator(llm *grok.Client) *Generator {
	return &Generator{llm: llm}
}

// Generate produces at least one non-empty candidate message for the token.
// Model-call failures of any class degrade to the deterministic fallback;
// the only error surfaced to the caller is a precondition ValidationError.
func (g *Generator) Generate(ctx context.Context, token *models.TokenRecord) ([]models.GeneratedMessage, error) {
	if err := token.Validate(); err != nil {
		return nil, err
	}

	if g.llm == nil {
		log.Debug().Str("symbol", token.Symbol).Msg("LLM not configured, using fallback")
		return []models.GeneratedMessage{Fallback(token)}, nil
	}

	resp, err := g.llm.Chat(ctx, grok.ChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildPrompt(token),
		Temperature:  0.7,
		MaxTokens:    120,
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("symbol", token.Symbol).
			Str("class", grok.FailureClass(err)).
			Msg("Generation failed, using fallback")
		return []models.GeneratedMessage{Fallback(token)}, nil
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		log.Warn().
			Str("symbol", token.Symbol).
			Msg("Model returned empty text, using fallback")
		return []models.GeneratedMessage{Fallback(token)}, nil
	}

	log.Info().
		Str("symbol", token.Symbol).
		Int("length", len(text)).
		Msg("Message generated")

	return []models.GeneratedMessage{{Text: text, Source: models.SourceModel}}, nil
}

// Fallback synthesizes a message from locally available fields only. It must
// never fail, whatever shape the record is in.
func Fallback(token *models.TokenRecord) models.GeneratedMessage {
	volume := "developing"
	if token.Volume24h.Present() {
		volume = "active"
	}

	text := fmt.Sprintf("%s: %s sentiment with %s volume. worth watching?",
		token.Cashtag(), token.EffectiveSentiment(), volume)

	return models.GeneratedMessage{Text: text, Source: models.SourceFallback}
}

// buildPrompt embeds the token snapshot into a single structured prompt.
func buildPrompt(token *models.TokenRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this token data and provide a tweet under 15 words in the format:\n")
	fmt.Fprintf(&b, "%s: Analysis + action?\n\n", token.Cashtag())

	fmt.Fprintf(&b, "Token Symbol: %s\n", token.Symbol)
	fmt.Fprintf(&b, "Token Name: %s\n", token.Name)
	fmt.Fprintf(&b, "Market Cap: %s\n", formatAmount(token.MarketCap))
	fmt.Fprintf(&b, "Price: %s\n", formatAmount(token.Price))
	fmt.Fprintf(&b, "Volume 24h: %s\n", formatAmount(token.Volume24h))
	fmt.Fprintf(&b, "Sentiment: %s\n", token.EffectiveSentiment())
	fmt.Fprintf(&b, "Events: %s\n", joinEvents(token.Events))

	if token.NarrativeAlignment != "" {
		fmt.Fprintf(&b, "Narrative: %s\n", token.NarrativeAlignment)
	}
	if token.Categories != "" {
		fmt.Fprintf(&b, "Categories: %s\n", token.Categories)
	}
	if token.RiskLevel != "" {
		fmt.Fprintf(&b, "Risk Level: %s\n", token.RiskLevel)
	}

	fmt.Fprintf(&b, "\nKeep it cool, no caps for emotion, mix up the final actions like %s",
		quoteList(actionPhrases))

	return b.String()
}

func joinEvents(events []string) string {
	if len(events) == 0 {
		return "none"
	}
	return strings.Join(events, ", ")
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

// formatAmount renders a market figure with K/M/B suffixes for large values.
func formatAmount(n models.FlexNumber) string {
	v, ok := n.Float()
	if !ok {
		if n.Present() {
			return n.String()
		}
		return "N/A"
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.8f", v), "0"), ".")
	}
}
