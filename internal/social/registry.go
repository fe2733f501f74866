// Package social provides the posting pipeline: platform rules, rate
// limiting, dispatch, and per-platform REST adapters.
package social

import (
	"time"

	"github.com/lurelabs/tokenpulse/internal/models"
)

// RateLimit is a fixed-window posting quota.
type RateLimit struct {
	// Quota is the number of posts admitted per window.
	Quota int
	// Window is the window length.
	Window time.Duration
}

// Rule holds the posting constraints for one platform. Rules are immutable
// once the registry is built.
type Rule struct {
	Platform      models.Platform
	MaxPostLength int
	AllowedMedia  []models.MediaKind
	RateLimit     RateLimit
}

// AllowsMedia reports whether the platform accepts the given media kind.
func (r Rule) AllowsMedia(kind models.MediaKind) bool {
	for _, k := range r.AllowedMedia {
		if k == kind {
			return true
		}
	}
	return false
}

// Registry maps platform identifiers to their posting rules.
type Registry struct {
	rules map[models.Platform]Rule
}

// NewRegistry builds a registry from the given rules.
func NewRegistry(rules ...Rule) *Registry {
	m := make(map[models.Platform]Rule, len(rules))
	for _, rule := range rules {
		m[rule.Platform] = rule
	}
	return &Registry{rules: m}
}

// DefaultRegistry returns the standard posting rules for the supported
// platforms.
func DefaultRegistry() *Registry {
	allMedia := []models.MediaKind{models.MediaPhoto, models.MediaVideo, models.MediaGIF}

	return NewRegistry(
		Rule{
			Platform:      models.PlatformTwitter,
			MaxPostLength: 280,
			AllowedMedia:  allMedia,
			RateLimit:     RateLimit{Quota: 300, Window: 180 * time.Minute},
		},
		Rule{
			Platform:      models.PlatformTelegram,
			MaxPostLength: 4096,
			AllowedMedia:  allMedia,
			RateLimit:     RateLimit{Quota: 20, Window: 60 * time.Minute},
		},
		Rule{
			Platform:      models.PlatformDiscord,
			MaxPostLength: 2000,
			AllowedMedia:  allMedia,
			RateLimit:     RateLimit{Quota: 5, Window: 1 * time.Minute},
		},
	)
}

// Rule returns the rule for a platform.
func (r *Registry) Rule(platform models.Platform) (Rule, bool) {
	rule, ok := r.rules[platform]
	return rule, ok
}

// Platforms returns every platform the registry knows about.
func (r *Registry) Platforms() []models.Platform {
	platforms := make([]models.Platform, 0, len(r.rules))
	for p := range r.rules {
		platforms = append(platforms, p)
	}
	return platforms
}
