package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fadilmartias/interview-minds/internal/config"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/util"
	"google.golang.org/genai"
)

const (
	geminiMaxEmbedBatch = 100
	geminiMaxEmbedChars = 10000

	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// GeminiService serves chat/scoring generation and remote embeddings.
type GeminiService struct {
	Client           *genai.Client
	ChatModel        string
	EmbeddingModel   string
	Dimensions       int
	BaseDelay        time.Duration
	MaxDelay         time.Duration
	RequestTimeout   time.Duration
	EmbeddingTimeout time.Duration

	generateBreaker *circuitBreaker
	embedBreaker    *circuitBreaker
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	aiConfig := config.LoadAIConfig()
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	s := newGeminiService(client, geminiConfig.ChatModel, geminiConfig.EmbeddingModel, aiConfig.EmbeddingDimension)
	s.RequestTimeout = geminiConfig.RequestTimeout
	s.EmbeddingTimeout = aiConfig.EmbeddingTimeout
	return s, nil
}

func newGeminiService(client *genai.Client, chatModel, embeddingModel string, dimensions int) *GeminiService {
	return &GeminiService{
		Client:           client,
		ChatModel:        chatModel,
		EmbeddingModel:   embeddingModel,
		Dimensions:       dimensions,
		BaseDelay:        time.Second,
		MaxDelay:         30 * time.Second,
		RequestTimeout:   60 * time.Second,
		EmbeddingTimeout: 20 * time.Second,
		generateBreaker:  newCircuitBreaker(5, time.Minute),
		embedBreaker:     newCircuitBreaker(5, time.Minute),
	}
}

func (s *GeminiService) Name() string {
	return "gemini:" + s.EmbeddingModel
}

func (s *GeminiService) Dimension() int {
	return s.Dimensions
}

func (s *GeminiService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}
	if err := s.generateBreaker.allow(); err != nil {
		failures, _ := s.generateBreaker.status()
		logger.Warn().Int("consecutive_errors", failures).Msg("gemini generate circuit open")
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	contents := toGeminiContents(req.Messages)
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if strings.TrimSpace(req.System) != "" {
		genConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}}
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	var lastErr error
	for attempt := 0; attempt <= req.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(s.BaseDelay, s.MaxDelay, attempt)
			logger.Warn().Int("attempt", attempt).Int("max_retries", req.MaxRetries).
				Dur("delay", delay).Msg("retrying gemini generate")

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				s.generateBreaker.record(lastErr)
				return "", fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.Client.Models.GenerateContent(timeoutCtx, s.ChatModel, contents, genConfig)
		if err == nil {
			s.generateBreaker.record(nil)
			if err := validateGenerateResponse(result); err != nil {
				logger.Warn().Err(err).Str("model", s.ChatModel).Msg("gemini returned no content")
				return "", nil
			}
			return result.Text(), nil
		}

		lastErr = err
		if !isRetryableError(err) {
			s.generateBreaker.record(err)
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retryable gemini error")
	}

	s.generateBreaker.record(lastErr)
	return "", fmt.Errorf("max retries (%d) exceeded for generate content: %w", req.MaxRetries, lastErr)
}

func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, taskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *GeminiService) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiMaxEmbedBatch {
		end := min(start+geminiMaxEmbedBatch, len(texts))
		vectors, err := s.embed(ctx, texts[start:end], taskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// embed makes exactly one EmbedContent call. Retrying is left to the caller
// because retries under rate limiting only burn more quota.
func (s *GeminiService) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, fmt.Errorf("text %d for embedding cannot be empty", i)
		}
		if len(trimmed) > geminiMaxEmbedChars {
			logger.Warn().Int("length", len(trimmed)).Msg("embedding input exceeds limit, truncating")
			trimmed = util.TruncateRunes(trimmed, geminiMaxEmbedChars)
		}
		contents = append(contents, genai.NewContentFromText(trimmed, genai.RoleUser))
	}

	if err := s.embedBreaker.allow(); err != nil {
		failures, _ := s.embedBreaker.status()
		logger.Warn().Int("consecutive_errors", failures).Msg("gemini embed circuit open")
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.EmbeddingTimeout)
	defer cancel()

	embedConfig := &genai.EmbedContentConfig{TaskType: taskType}
	if s.Dimensions > 0 {
		embedConfig.OutputDimensionality = genai.Ptr(int32(s.Dimensions))
	}

	result, err := s.Client.Models.EmbedContent(timeoutCtx, s.EmbeddingModel, contents, embedConfig)
	if err != nil {
		s.embedBreaker.record(err)
		return nil, fmt.Errorf("generate embedding failed: %w", err)
	}

	vectors, err := embeddingValues(result)
	if err == nil {
		err = validateVectors(vectors, len(texts), s.Dimensions)
	}
	s.embedBreaker.record(err)
	if err != nil {
		return nil, fmt.Errorf("invalid embedding response: %w", err)
	}
	return vectors, nil
}

func toGeminiContents(messages []model.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		if model.NormalizeRole(m.Role) == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return contents
}

func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	delay := base * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > max {
		delay = max
	}
	jitter := time.Duration(float64(delay) * 0.25)
	return delay - jitter/2 + time.Duration(rand.Float64()*float64(jitter))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	switch apiErrorCode(err) {
	case 429, 500, 502, 503, 504:
		return true
	case 400, 401, 403, 404:
		return false
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func apiErrorCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func embeddingValues(resp *genai.EmbedContentResponse) ([][]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		if e == nil {
			vectors = append(vectors, nil)
			continue
		}
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}
