package social

import (
	"sync"
	"time"

	"github.com/lurelabs/tokenpulse/internal/models"
)

// windowState is the per-platform posting counter. Owned exclusively by the
// RateLimiter; nothing else reads or mutates it.
type windowState struct {
	windowStart time.Time
	count       int
}

// RateLimiter applies fixed-window admission control per platform: the
// counter hard-resets once the window elapses rather than decaying. Quotas
// are coarse (hundreds of posts over hours), so burst precision at window
// edges is not a correctness requirement.
type RateLimiter struct {
	registry *Registry

	mu      sync.Mutex
	windows map[models.Platform]*windowState

	now func() time.Time
}

// NewRateLimiter creates a rate limiter over the registry's quotas.
func NewRateLimiter(registry *Registry) *RateLimiter {
	return &RateLimiter{
		registry: registry,
		windows:  make(map[models.Platform]*windowState),
		now:      time.Now,
	}
}

// TryAdmit decides whether a post to the platform is currently permitted,
// counting the attempt when it is. Check and increment happen under one
// lock so concurrent posts to the same platform cannot interleave.
func (l *RateLimiter) TryAdmit(platform models.Platform) bool {
	rule, ok := l.registry.Rule(platform)
	if !ok || rule.RateLimit.Quota <= 0 {
		// No quota configured means no limit.
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, exists := l.windows[platform]
	if !exists {
		l.windows[platform] = &windowState{windowStart: now, count: 1}
		return true
	}

	if now.Sub(w.windowStart) >= rule.RateLimit.Window {
		w.windowStart = now
		w.count = 1
		return true
	}

	if w.count < rule.RateLimit.Quota {
		w.count++
		return true
	}

	return false
}

// Usage returns the current count and window start for a platform. Zero
// values mean no post has been attempted this window.
func (l *RateLimiter) Usage(platform models.Platform) (count int, windowStart time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w, ok := l.windows[platform]; ok {
		return w.count, w.windowStart
	}
	return 0, time.Time{}
}
