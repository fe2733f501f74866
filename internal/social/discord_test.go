package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// discordServer fakes the channel lookup plus message create endpoints.
func discordServer(t *testing.T, channelType int) (*httptest.Server, *[]string) {
	t.Helper()

	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]int{"type": channelType})
		case r.Method == http.MethodPost:
			var body struct {
				Content string `json:"content"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			sent = append(sent, body.Content)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"123"}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &sent
}

func TestDiscordAdapter_PostsToTextChannel(t *testing.T) {
	srv, sent := discordServer(t, discordChannelGuildText)

	adapter := NewDiscordAdapter(DiscordConfig{
		BotToken:  "tok",
		ChannelID: "c1",
		APIBase:   srv.URL,
	})

	err := adapter.Post(context.Background(), "$LURE update", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"$LURE update"}, *sent)
}

func TestDiscordAdapter_SkipsVoiceChannelPermissive(t *testing.T) {
	srv, sent := discordServer(t, 2) // guild voice

	adapter := NewDiscordAdapter(DiscordConfig{BotToken: "tok", ChannelID: "c1", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.NoError(t, err)
	assert.Empty(t, *sent)
}

func TestDiscordAdapter_VoiceChannelStrict(t *testing.T) {
	srv, sent := discordServer(t, 2)

	adapter := NewDiscordAdapter(DiscordConfig{BotToken: "tok", ChannelID: "c1", APIBase: srv.URL, Strict: true})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.Error(t, err)
	assert.Empty(t, *sent)
}

func TestDiscordAdapter_UninitializedPermissiveIsNoop(t *testing.T) {
	adapter := NewDiscordAdapter(DiscordConfig{})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.NoError(t, err)
}

func TestDiscordAdapter_UninitializedStrictFails(t *testing.T) {
	adapter := NewDiscordAdapter(DiscordConfig{Strict: true})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.Error(t, err)
}

func TestDiscordAdapter_AuthFailureOnChannelLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"401: Unauthorized"}`))
	}))
	defer srv.Close()

	adapter := NewDiscordAdapter(DiscordConfig{BotToken: "bad", ChannelID: "c1", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.True(t, errors.Is(err, ErrAuth))
}
