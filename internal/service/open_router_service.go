package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/interview-minds/internal/config"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// OpenRouterService is an OpenAI-compatible chat completions backend.
type OpenRouterService struct {
	client    *resty.Client
	model     string
	baseDelay time.Duration
}

func NewOpenRouterService() (*OpenRouterService, error) {
	cfg := config.LoadOpenRouterConfig()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	return newOpenRouterService(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.RequestTimeout), nil
}

func newOpenRouterService(baseURL, apiKey, modelName string, timeout time.Duration) *OpenRouterService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &OpenRouterService{client: client, model: modelName, baseDelay: time.Second}
}

func (s *OpenRouterService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}

	messages := make([]map[string]string, 0, len(req.Messages)+1)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	for _, m := range req.Messages {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		role := "user"
		if model.NormalizeRole(m.Role) == model.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, map[string]string{"role": role, "content": m.Text})
	}

	payload := map[string]any{
		"model":       s.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.JSON {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	var lastErr error
	for attempt := 0; attempt <= req.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(s.baseDelay, 30*time.Second, attempt)
			logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("retrying openrouter request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("context done during retry: %w", ctx.Err())
			}
		}

		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/chat/completions")
		if err != nil {
			lastErr = fmt.Errorf("openrouter request failed: %w", err)
			if !isRetryableError(err) {
				return "", lastErr
			}
			continue
		}
		if resp.IsError() {
			msg := gjson.GetBytes(resp.Body(), "error.message").String()
			if msg == "" {
				msg = resp.Status()
			}
			lastErr = fmt.Errorf("openrouter api error (%d): %s", resp.StatusCode(), msg)
			code := resp.StatusCode()
			if code != http.StatusTooManyRequests && code < http.StatusInternalServerError {
				return "", lastErr
			}
			continue
		}

		return gjson.GetBytes(resp.Body(), "choices.0.message.content").String(), nil
	}
	return "", fmt.Errorf("max retries (%d) exceeded: %w", req.MaxRetries, lastErr)
}
