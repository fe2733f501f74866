package social

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lurelabs/tokenpulse/internal/models"
	"github.com/rs/zerolog/log"
)

const TelegramAPIBase = "https://api.telegram.org"

// TelegramAdapter posts through the Telegram Bot API. The send primitive is
// chosen by the first media item's kind; the text always rides along as the
// caption or as a standalone message.
type TelegramAdapter struct {
	client *resty.Client
	chatID string
}

// TelegramConfig holds the configuration for the Telegram adapter.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIBase  string
}

// NewTelegramAdapter creates a new Telegram adapter.
func NewTelegramAdapter(cfg TelegramConfig) *TelegramAdapter {
	if cfg.APIBase == "" {
		cfg.APIBase = TelegramAPIBase
	}

	return &TelegramAdapter{
		client: resty.New().
			SetBaseURL(fmt.Sprintf("%s/bot%s", cfg.APIBase, cfg.BotToken)).
			SetTimeout(30 * time.Second),
		chatID: cfg.ChatID,
	}
}

// Platform returns the platform identifier.
func (t *TelegramAdapter) Platform() models.Platform {
	return models.PlatformTelegram
}

// Post sends the message to the configured chat.
func (t *TelegramAdapter) Post(ctx context.Context, text string, media []models.Media) error {
	method := "sendMessage"
	params := map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	}

	if len(media) > 0 {
		first := media[0]
		switch first.Kind {
		case models.MediaPhoto:
			method = "sendPhoto"
			params = map[string]string{
				"chat_id": t.chatID,
				"photo":   first.URL,
				"caption": text,
			}
		case models.MediaVideo:
			method = "sendVideo"
			params = map[string]string{
				"chat_id": t.chatID,
				"video":   first.URL,
				"caption": text,
			}
		}
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(params).
		Post("/" + method)

	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := classifyStatus(resp.StatusCode(), resp.String()); err != nil {
		return err
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram %s rejected: %s", method, result.Description)
	}

	log.Debug().Str("method", method).Msg("Telegram message sent")
	return nil
}
