package social

import (
	"context"
	"errors"
	"time"

	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
)

// Dispatcher validates content against platform rules, consults the rate
// limiter, and routes to the matching adapter. Post never returns an error:
// every failure mode is reported through the outcome.
type Dispatcher struct {
	registry *Registry
	limiter  *RateLimiter
	adapters map[models.Platform]Adapter

	// strict: a platform with no registered adapter fails the dispatch.
	// Permissive (default): it is skipped as a silent success, matching
	// how the posting layer historically treated uninitialized clients.
	strict bool
}

// NewDispatcher creates a dispatcher over the given adapters.
func NewDispatcher(registry *Registry, limiter *RateLimiter, strict bool, adapters ...Adapter) *Dispatcher {
	m := make(map[models.Platform]Adapter, len(adapters))
	for _, a := range adapters {
		if a != nil {
			m[a.Platform()] = a
		}
	}
	return &Dispatcher{
		registry: registry,
		limiter:  limiter,
		adapters: m,
		strict:   strict,
	}
}

// Post dispatches one message to one platform.
//
// Quota is consumed at admission time and is not rolled back when the
// adapter later fails: an admitted-then-failed delivery still spends one
// unit, keeping the window counter monotonic.
func (d *Dispatcher) Post(ctx context.Context, msg models.GeneratedMessage, platform models.Platform, media []models.Media) models.PostOutcome {
	rule, ok := d.registry.Rule(platform)
	if !ok {
		log.Warn().Str("platform", string(platform)).Msg("Unsupported platform")
		return models.Failed(platform, models.ErrKindUnsupportedPlatform, "no rule for platform")
	}

	text, truncated := truncate(msg.Text, rule.MaxPostLength)
	if truncated {
		log.Debug().
			Str("platform", string(platform)).
			Int("max", rule.MaxPostLength).
			Msg("Message truncated to platform limit")
	}

	if !d.limiter.TryAdmit(platform) {
		log.Info().Str("platform", string(platform)).Msg("Post denied by rate limit")
		outcome := models.Failed(platform, models.ErrKindRateLimited, "rate limit exceeded")
		outcome.Truncated = truncated
		return outcome
	}

	adapter := d.adapters[platform]
	if adapter == nil {
		if d.strict {
			return models.Failed(platform, models.ErrKindDeliveryFailed, "adapter not configured")
		}
		log.Warn().Str("platform", string(platform)).Msg("Adapter not configured, skipping post")
		return models.PostOutcome{Platform: platform, Success: true, Truncated: truncated, PostedAt: time.Now()}
	}

	allowed := filterMedia(media, rule)

	if err := adapter.Post(ctx, text, allowed); err != nil {
		outcome := models.Failed(platform, classifyAdapterErr(err), err.Error())
		outcome.Truncated = truncated
		log.Error().
			Err(err).
			Str("platform", string(platform)).
			Str("kind", string(outcome.Error)).
			Msg("Post failed")
		return outcome
	}

	log.Info().
		Str("platform", string(platform)).
		Str("source", string(msg.Source)).
		Bool("truncated", truncated).
		Msg("Posted")

	return models.PostOutcome{Platform: platform, Success: true, Truncated: truncated, PostedAt: time.Now()}
}

// truncate hard-cuts text to max runes. No ellipsis marker is added.
func truncate(text string, max int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}
	return string(runes[:max]), true
}

// filterMedia drops attachments the platform does not accept.
func filterMedia(media []models.Media, rule Rule) []models.Media {
	if len(media) == 0 {
		return nil
	}
	var allowed []models.Media
	for _, m := range media {
		if rule.AllowsMedia(m.Kind) {
			allowed = append(allowed, m)
		} else {
			log.Debug().
				Str("platform", string(rule.Platform)).
				Str("kind", string(m.Kind)).
				Msg("Dropping media kind not allowed on platform")
		}
	}
	return allowed
}

func classifyAdapterErr(err error) models.ErrorKind {
	switch {
	case errors.Is(err, ErrMediaUpload):
		return models.ErrKindMediaUploadFailed
	case errors.Is(err, ErrAuth):
		return models.ErrKindAuthFailed
	case errors.Is(err, ErrThrottled):
		return models.ErrKindPlatformThrottled
	default:
		return models.ErrKindDeliveryFailed
	}
}
