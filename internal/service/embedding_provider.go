package service

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidEmbedding = errors.New("invalid embedding")

// EmbeddingProvider turns text into vectors of one fixed dimension.
// Implementations never retry; a failed call is returned to the caller as is.
type EmbeddingProvider interface {
	Name() string
	// Dimension is 0 while a lazily loaded provider has not been used yet.
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

func validateVector(v []float32, dim int) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidEmbedding)
	}
	if dim > 0 && len(v) != dim {
		return fmt.Errorf("%w: dimension %d, expected %d", ErrInvalidEmbedding, len(v), dim)
	}
	nonZero := false
	for i, val := range v {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("%w: value at index %d is %v", ErrInvalidEmbedding, i, val)
		}
		if val != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		return fmt.Errorf("%w: all-zero vector", ErrInvalidEmbedding)
	}
	return nil
}

func validateVectors(vectors [][]float32, want, dim int) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: got %d vectors for %d inputs", ErrInvalidEmbedding, len(vectors), want)
	}
	for i, v := range vectors {
		if err := validateVector(v, dim); err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return nil
}
