package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform identifies a social platform the pipeline can post to.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformTelegram Platform = "telegram"
	PlatformDiscord  Platform = "discord"
)

// MessageSource records how a message was produced.
type MessageSource string

const (
	SourceModel    MessageSource = "model"
	SourceFallback MessageSource = "fallback"
)

// GeneratedMessage is one candidate post produced by the content generator.
// Text is bounded to the platform maximum at dispatch time, not here.
type GeneratedMessage struct {
	Text   string        `bson:"text" json:"text"`
	Source MessageSource `bson:"source" json:"source"`
}

// MediaKind classifies an attachment.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
	MediaGIF   MediaKind = "gif"
)

// Media is an attachment referenced by URL.
type Media struct {
	URL  string    `bson:"url" json:"url"`
	Kind MediaKind `bson:"kind" json:"kind"`
}

// ErrorKind classifies a failed post outcome.
type ErrorKind string

const (
	ErrKindUnsupportedPlatform ErrorKind = "unsupported_platform"
	ErrKindRateLimited         ErrorKind = "rate_limited"
	ErrKindMediaUploadFailed   ErrorKind = "media_upload_failed"
	ErrKindAuthFailed          ErrorKind = "auth_failed"
	ErrKindPlatformThrottled   ErrorKind = "platform_throttled"
	ErrKindDeliveryFailed      ErrorKind = "delivery_failed"
)

// PostOutcome is the result of one dispatch attempt. Failures are data here,
// not errors: the dispatcher never raises for expected conditions.
type PostOutcome struct {
	Platform  Platform  `bson:"platform" json:"platform"`
	Success   bool      `bson:"success" json:"success"`
	Error     ErrorKind `bson:"error,omitempty" json:"error,omitempty"`
	Detail    string    `bson:"detail,omitempty" json:"detail,omitempty"`
	Truncated bool      `bson:"truncated,omitempty" json:"truncated,omitempty"`
	PostedAt  time.Time `bson:"posted_at" json:"posted_at"`
}

// Failed builds a failure outcome for a platform.
func Failed(platform Platform, kind ErrorKind, detail string) PostOutcome {
	return PostOutcome{
		Platform: platform,
		Success:  false,
		Error:    kind,
		Detail:   detail,
		PostedAt: time.Now(),
	}
}

// ProcessedPost is a persisted record of one generation + dispatch cycle.
type ProcessedPost struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	TokenSymbol string             `bson:"token_symbol" json:"token_symbol"`
	TokenName   string             `bson:"token_name" json:"token_name"`
	Messages    []GeneratedMessage `bson:"messages" json:"messages"`
	Outcomes    []PostOutcome      `bson:"outcomes,omitempty" json:"outcomes,omitempty"`

	// Posted is true once at least one platform confirmed delivery.
	Posted    bool      `bson:"posted" json:"posted"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
