package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/artvault/internal/domain"
)

// EmbeddingService projects text into a fixed-dimension vector via an
// OpenAI-compatible embeddings endpoint.
type EmbeddingService struct {
	client     *resty.Client
	model      string
	endpoint   string
	dimensions int
}

// EmbeddingConfig holds configuration for the embedding client.
type EmbeddingConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	Timeout    time.Duration
}

// NewEmbeddingService creates a new embedding client wrapper.
func NewEmbeddingService(cfg *EmbeddingConfig) *EmbeddingService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = domain.EmbeddingDimensions
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		endpoint:   baseURL + "/embeddings",
		dimensions: dims,
	}
}

// Model returns the embedding model identifier being used.
func (s *EmbeddingService) Model() string {
	return s.model
}

type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed converts text into a vector. A vector whose length does not match
// the configured dimensionality is rejected, never padded or truncated.
func (s *EmbeddingService) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if text == "" {
		return nil, &EmbeddingError{Err: fmt.Errorf("empty input text")}
	}

	req := embeddingRequest{
		Model:      s.model,
		Input:      text,
		Dimensions: s.dimensions,
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, &EmbeddingError{Err: fmt.Errorf("failed to call embedding API: %w", err)}
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, &EmbeddingError{Err: fmt.Errorf("embedding API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)}
		}
		return nil, &EmbeddingError{Err: fmt.Errorf("embedding API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))}
	}

	if resp.Error != nil {
		return nil, &EmbeddingError{Err: fmt.Errorf("embedding API error: %s", resp.Error.Message)}
	}

	if len(resp.Data) == 0 {
		return nil, &EmbeddingError{Err: fmt.Errorf("no embedding in API response")}
	}

	vec, err := domain.NewVector(resp.Data[0].Embedding)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}
	return vec, nil
}

// RandomVector produces a uniform random vector in [-1, 1], each component
// rounded to 6 decimal places. Used by the seeder for placeholder embeddings.
func RandomVector(dims int) domain.Vector {
	vec := make(domain.Vector, dims)
	for i := range vec {
		v := rand.Float64()*2 - 1
		vec[i] = float32(math.Round(v*1e6) / 1e6)
	}
	return vec
}
