package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	TwitterAPIBase    = "https://api.twitter.com"
	TwitterUploadBase = "https://upload.twitter.com"
)

// TwitterAdapter posts tweets through the v2 API, uploading media through
// the v1.1 endpoint first when attachments are present.
type TwitterAdapter struct {
	api    *resty.Client
	upload *resty.Client
	fetch  *resty.Client
}

// TwitterConfig holds the configuration for the Twitter adapter.
type TwitterConfig struct {
	BearerToken string
	APIBase     string
	UploadBase  string
}

// NewTwitterAdapter creates a new Twitter adapter.
func NewTwitterAdapter(cfg TwitterConfig) *TwitterAdapter {
	if cfg.APIBase == "" {
		cfg.APIBase = TwitterAPIBase
	}
	if cfg.UploadBase == "" {
		cfg.UploadBase = TwitterUploadBase
	}

	return &TwitterAdapter{
		api: resty.New().
			SetBaseURL(cfg.APIBase).
			SetTimeout(30 * time.Second).
			SetAuthToken(cfg.BearerToken),
		upload: resty.New().
			SetBaseURL(cfg.UploadBase).
			SetTimeout(60 * time.Second).
			SetAuthToken(cfg.BearerToken),
		fetch: resty.New().
			SetTimeout(30 * time.Second),
	}
}

// Platform returns the platform identifier.
func (t *TwitterAdapter) Platform() models.Platform {
	return models.PlatformTwitter
}

// Post publishes a tweet. All media uploads must succeed before the tweet
// call is attempted; a partial set of attachments is never posted.
func (t *TwitterAdapter) Post(ctx context.Context, text string, media []models.Media) error {
	var mediaIDs []string
	for _, m := range media {
		id, err := t.uploadMedia(ctx, m)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMediaUpload, m.URL, err)
		}
		mediaIDs = append(mediaIDs, id)
	}

	body := map[string]interface{}{"text": text}
	if len(mediaIDs) > 0 {
		body["media"] = map[string]interface{}{"media_ids": mediaIDs}
	}

	resp, err := t.api.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/2/tweets")

	if err != nil {
		return fmt.Errorf("failed to post tweet: %w", err)
	}

	if err := classifyStatus(resp.StatusCode(), resp.String()); err != nil {
		return err
	}

	log.Debug().Int("media", len(mediaIDs)).Msg("Tweet posted")
	return nil
}

// uploadMedia fetches the attachment bytes and uploads them through the
// v1.1 media endpoint, returning the media ID to attach to the tweet.
func (t *TwitterAdapter) uploadMedia(ctx context.Context, m models.Media) (string, error) {
	fetched, err := t.fetch.R().
		SetContext(ctx).
		Get(m.URL)
	if err != nil {
		return "", fmt.Errorf("fetching media: %w", err)
	}
	if fetched.StatusCode() != 200 {
		return "", fmt.Errorf("fetching media: status %d", fetched.StatusCode())
	}

	resp, err := t.upload.R().
		SetContext(ctx).
		SetFileReader("media", "media", bytes.NewReader(fetched.Body())).
		Post("/1.1/media/upload.json")
	if err != nil {
		return "", fmt.Errorf("uploading media: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("uploading media: status %d: %s", resp.StatusCode(), resp.String())
	}

	var result struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("parsing upload response: %w", err)
	}
	if result.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media_id_string")
	}

	return result.MediaIDString, nil
}
