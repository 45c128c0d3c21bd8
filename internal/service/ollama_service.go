package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// OllamaService embeds text with a model served by a local Ollama runtime.
// The model is loaded on first use and pinned in memory for the life of the
// process; concurrent first calls wait for a single load.
type OllamaService struct {
	client *resty.Client
	model  string

	// loadMu serializes the first load; readers of dimension never take it.
	loadMu    sync.Mutex
	loaded    atomic.Bool
	dimension atomic.Int64
}

func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &OllamaService{client: client, model: model}
}

func (s *OllamaService) Name() string {
	return "ollama:" + s.model
}

func (s *OllamaService) Dimension() int {
	return int(s.dimension.Load())
}

func (s *OllamaService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	vectors, err := s.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *OllamaService) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	dim, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	vectors, err := s.embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err := validateVectors(vectors, len(texts), dim); err != nil {
		return nil, fmt.Errorf("invalid embedding response: %w", err)
	}
	return vectors, nil
}

// ensureLoaded warms the model once. A failed load leaves the service
// unloaded so the next call tries again.
func (s *OllamaService) ensureLoaded(ctx context.Context) (int, error) {
	if s.loaded.Load() {
		return s.Dimension(), nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded.Load() {
		return s.Dimension(), nil
	}

	started := time.Now()
	vectors, err := s.embed(ctx, []string{"warm up"})
	if err != nil {
		return 0, fmt.Errorf("load ollama model %s: %w", s.model, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return 0, fmt.Errorf("load ollama model %s: %w: no vector returned", s.model, ErrInvalidEmbedding)
	}

	dim := len(vectors[0])
	s.dimension.Store(int64(dim))
	s.loaded.Store(true)
	logger.Info().Str("model", s.model).Int("dimension", dim).
		Dur("took", time.Since(started)).Msg("ollama embedding model loaded")
	return dim, nil
}

func (s *OllamaService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": s.model,
			"input": texts,
			// -1 keeps the model resident until the runtime stops
			"keep_alive": -1,
		}).
		Post("/api/embed")
	if err != nil {
		return nil, fmt.Errorf("ollama embed request failed: %w", err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("ollama api error (%d): %s", resp.StatusCode(), msg)
	}

	embeddings := gjson.GetBytes(resp.Body(), "embeddings").Array()
	vectors := make([][]float32, 0, len(embeddings))
	for _, e := range embeddings {
		values := e.Array()
		vec := make([]float32, len(values))
		for i, v := range values {
			vec[i] = float32(v.Float())
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
