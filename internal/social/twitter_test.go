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

	"github.com/lurelabs/tokenpulse/internal/models"
)

func TestTwitterAdapter_PostsTextOnly(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/tweets", r.URL.Path)
		require.Equal(t, "Bearer bearer-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	adapter := NewTwitterAdapter(TwitterConfig{BearerToken: "bearer-123", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "$LURE: positive sentiment with active volume. worth watching?", nil)
	require.NoError(t, err)

	assert.Equal(t, "$LURE: positive sentiment with active volume. worth watching?", gotBody["text"])
	assert.NotContains(t, gotBody, "media")
}

func TestTwitterAdapter_UploadsMediaBeforeTweet(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer cdn.Close()

	uploads := 0
	upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/1.1/media/upload.json", r.URL.Path)
		uploads++
		w.Write([]byte(`{"media_id_string":"777"}`))
	}))
	defer upload.Close()

	var gotBody map[string]interface{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer api.Close()

	adapter := NewTwitterAdapter(TwitterConfig{BearerToken: "tok", APIBase: api.URL, UploadBase: upload.URL})

	media := []models.Media{{URL: cdn.URL + "/chart.png", Kind: models.MediaPhoto}}
	err := adapter.Post(context.Background(), "with chart", media)
	require.NoError(t, err)

	assert.Equal(t, 1, uploads)
	mediaField, ok := gotBody["media"].(map[string]interface{})
	require.True(t, ok, "tweet body should carry the media block")
	assert.Equal(t, []interface{}{"777"}, mediaField["media_ids"])
}

func TestTwitterAdapter_MediaUploadFailureAbortsTweet(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer cdn.Close()

	tweeted := false
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tweeted = true
	}))
	defer api.Close()

	adapter := NewTwitterAdapter(TwitterConfig{BearerToken: "tok", APIBase: api.URL})

	media := []models.Media{{URL: cdn.URL + "/gone.png", Kind: models.MediaPhoto}}
	err := adapter.Post(context.Background(), "with chart", media)

	assert.True(t, errors.Is(err, ErrMediaUpload))
	assert.False(t, tweeted, "tweet must not be attempted after an upload failure")
}

func TestTwitterAdapter_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Forbidden"}`))
	}))
	defer srv.Close()

	adapter := NewTwitterAdapter(TwitterConfig{BearerToken: "expired", APIBase: srv.URL})

	err := adapter.Post(context.Background(), "hi", nil)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestClassifyStatus(t *testing.T) {
	assert.NoError(t, classifyStatus(200, ""))
	assert.NoError(t, classifyStatus(201, ""))
	assert.True(t, errors.Is(classifyStatus(401, "nope"), ErrAuth))
	assert.True(t, errors.Is(classifyStatus(403, "nope"), ErrAuth))
	assert.True(t, errors.Is(classifyStatus(429, ""), ErrThrottled))

	err := classifyStatus(500, "boom")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAuth))
	assert.False(t, errors.Is(err, ErrThrottled))
}
