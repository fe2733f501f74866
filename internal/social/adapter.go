package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/lurelabs/tokenpulse/internal/models"
)

// Adapter translates a generic "post text + optional media" call onto one
// platform's API shape. Implementations raise classifiable errors; the
// dispatcher turns those into outcomes.
type Adapter interface {
	Platform() models.Platform
	Post(ctx context.Context, text string, media []models.Media) error
}

// Classifiable adapter failures. Adapters wrap these so the dispatcher can
// match them with errors.Is; anything else is a generic delivery failure.
var (
	ErrAuth        = errors.New("social: platform authentication failed")
	ErrThrottled   = errors.New("social: platform throttled the request")
	ErrMediaUpload = errors.New("social: media upload failed")
)

// classifyStatus maps a platform HTTP status onto the adapter error classes.
func classifyStatus(status int, body string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 401 || status == 403:
		return fmt.Errorf("%w: status %d: %s", ErrAuth, status, body)
	case status == 429:
		return fmt.Errorf("%w: status %d", ErrThrottled, status)
	default:
		return fmt.Errorf("platform returned %d: %s", status, body)
	}
}
