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

const DiscordAPIBase = "https://discord.com/api/v10"

// Discord channel types that can receive plain messages.
const (
	discordChannelGuildText    = 0
	discordChannelDM           = 1
	discordChannelAnnouncement = 5
	discordChannelPublicThread = 11
)

// DiscordAdapter posts to a single channel through the Discord REST API.
// In permissive mode (the default) a missing token or a channel that cannot
// take text is a logged no-op rather than a failure; strict mode surfaces
// both as errors.
type DiscordAdapter struct {
	client    *resty.Client
	channelID string
	enabled   bool
	strict    bool
}

// DiscordConfig holds the configuration for the Discord adapter.
type DiscordConfig struct {
	BotToken  string
	ChannelID string
	APIBase   string
	Strict    bool
}

// NewDiscordAdapter creates a new Discord adapter.
func NewDiscordAdapter(cfg DiscordConfig) *DiscordAdapter {
	if cfg.APIBase == "" {
		cfg.APIBase = DiscordAPIBase
	}

	enabled := cfg.BotToken != "" && cfg.ChannelID != ""

	return &DiscordAdapter{
		client: resty.New().
			SetBaseURL(cfg.APIBase).
			SetTimeout(30 * time.Second).
			SetHeader("Authorization", "Bot "+cfg.BotToken),
		channelID: cfg.ChannelID,
		enabled:   enabled,
		strict:    cfg.Strict,
	}
}

// Platform returns the platform identifier.
func (d *DiscordAdapter) Platform() models.Platform {
	return models.PlatformDiscord
}

// Post sends the text to the configured channel. Discord attachments are
// not supported by this adapter; media is ignored.
func (d *DiscordAdapter) Post(ctx context.Context, text string, media []models.Media) error {
	if !d.enabled {
		if d.strict {
			return fmt.Errorf("discord client not initialized")
		}
		log.Warn().Msg("Discord client not initialized, skipping post")
		return nil
	}

	textCapable, err := d.channelAcceptsText(ctx)
	if err != nil {
		return err
	}
	if !textCapable {
		if d.strict {
			return fmt.Errorf("channel %s is not text-capable", d.channelID)
		}
		log.Warn().Str("channel", d.channelID).Msg("Channel not text-capable, skipping post")
		return nil
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"content": text}).
		Post("/channels/" + d.channelID + "/messages")

	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}

	if err := classifyStatus(resp.StatusCode(), resp.String()); err != nil {
		return err
	}

	log.Debug().Str("channel", d.channelID).Msg("Discord message sent")
	return nil
}

// channelAcceptsText resolves the channel and checks its type.
func (d *DiscordAdapter) channelAcceptsText(ctx context.Context) (bool, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		Get("/channels/" + d.channelID)

	if err != nil {
		return false, fmt.Errorf("failed to fetch channel: %w", err)
	}

	if err := classifyStatus(resp.StatusCode(), resp.String()); err != nil {
		return false, err
	}

	var channel struct {
		Type int `json:"type"`
	}
	if err := json.Unmarshal(resp.Body(), &channel); err != nil {
		return false, fmt.Errorf("parsing channel response: %w", err)
	}

	switch channel.Type {
	case discordChannelGuildText, discordChannelDM, discordChannelAnnouncement, discordChannelPublicThread:
		return true, nil
	default:
		return false, nil
	}
}
