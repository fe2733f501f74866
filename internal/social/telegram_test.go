package social

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lurelabs/tokenpulse/internal/models"
)

func TestTelegramAdapter_SendMessage(t *testing.T) {
	var gotPath string
	form := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	adapter := NewTelegramAdapter(TelegramConfig{
		BotToken: "secret-token",
		ChatID:   "-1001234",
		APIBase:  srv.URL,
	})

	err := adapter.Post(context.Background(), "$LURE on the move", nil)
	require.NoError(t, err)

	assert.Equal(t, "/botsecret-token/sendMessage", gotPath)
	assert.Equal(t, "-1001234", form["chat_id"])
	assert.Equal(t, "$LURE on the move", form["text"])
}

func TestTelegramAdapter_PhotoBecomesCaption(t *testing.T) {
	var gotPath string
	form := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	adapter := NewTelegramAdapter(TelegramConfig{BotToken: "tok", ChatID: "42", APIBase: srv.URL})

	media := []models.Media{{URL: "https://cdn.example.com/chart.png", Kind: models.MediaPhoto}}
	err := adapter.Post(context.Background(), "caption text", media)
	require.NoError(t, err)

	assert.Equal(t, "/bottok/sendPhoto", gotPath)
	assert.Equal(t, "https://cdn.example.com/chart.png", form["photo"])
	assert.Equal(t, "caption text", form["caption"])
	assert.Empty(t, form["text"])
}

func TestTelegramAdapter_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	adapter := NewTelegramAdapter(TelegramConfig{BotToken: "bad", ChatID: "42", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestTelegramAdapter_ThrottledFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
	}))
	defer srv.Close()

	adapter := NewTelegramAdapter(TelegramConfig{BotToken: "tok", ChatID: "42", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.True(t, errors.Is(err, ErrThrottled))
}

func TestTelegramAdapter_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with ok:false still means the post did not go out.
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	adapter := NewTelegramAdapter(TelegramConfig{BotToken: "tok", ChatID: "nope", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
