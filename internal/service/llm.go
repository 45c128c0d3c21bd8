package service

import (
	"context"

	"github.com/fadilmartias/interview-minds/internal/model"
)

type GenerateRequest struct {
	System      string
	Messages    []model.Turn
	Temperature float32
	// JSON asks the backend for a JSON-only response body.
	JSON       bool
	MaxRetries int
}

type LLMServiceInterface interface {
	// Generate returns the model's text; an empty string means the model produced no content.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
