package clipembed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient talks to a CLIP/OCR embedding service over a small JSON API:
// POST {model, images|texts} -> {embeddings}. It follows the usual
// Ollama/OpenAI-style embedder client shape (config struct, http.Client,
// marshal/post/decode) generalized to images instead of text-only input.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

// NewHTTPClient constructs a Client against cfg.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type imageEmbedRequest struct {
	Model  string   `json:"model"`
	Images []string `json:"images"` // base64-encoded
}

type textEmbedRequest struct {
	Model string   `json:"model"`
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) ([][]float32, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("clipembed: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("clipembed: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clipembed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("clipembed: endpoint returned %d: %s", resp.StatusCode, string(msg))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("clipembed: decode response: %w", err)
	}
	return out.Embeddings, nil
}

// EmbedImages base64-encodes each image and posts them as a single batch
// to /v1/embed/images.
func (c *HTTPClient) EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error) {
	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img)
	}
	return c.post(ctx, "/v1/embed/images", imageEmbedRequest{Model: c.cfg.ModelPath, Images: encoded})
}

// EmbedText posts texts as a single batch to /v1/embed/texts.
func (c *HTTPClient) EmbedText(ctx context.Context, texts []string) ([][]float32, error) {
	return c.post(ctx, "/v1/embed/texts", textEmbedRequest{Model: c.cfg.ModelPath, Texts: texts})
}

// Dimensions returns the configured embedding length.
func (c *HTTPClient) Dimensions() int {
	return c.cfg.Dimensions
}
