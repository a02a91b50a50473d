package clipembed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CLIP_MODEL_PATH", "custom/model")
	t.Setenv("CLIP_API_URL", "http://example.com:1234")
	cfg := DefaultConfig()
	assert.Equal(t, "custom/model", cfg.ModelPath)
	assert.Equal(t, "http://example.com:1234", cfg.APIURL)
}

func TestHTTPClient_EmbedImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed/images", r.URL.Path)
		var req imageEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Images, 2)

		resp := embedResponse{Embeddings: [][]float32{{1, 2}, {3, 4}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	c := NewHTTPClient(cfg)

	embeddings, err := c.EmbedImages(context.Background(), [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, embeddings)
}

func TestHTTPClient_EmbedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed/texts", r.URL.Path)
		resp := embedResponse{Embeddings: [][]float32{{0.5, 0.5}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	c := NewHTTPClient(cfg)

	embeddings, err := c.EmbedText(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, 0.5}}, embeddings)
}

func TestHTTPClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.APIURL = srv.URL
	c := NewHTTPClient(cfg)

	_, err := c.EmbedText(context.Background(), []string{"hello"})
	require.Error(t, err)
}
