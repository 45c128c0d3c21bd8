package config

import (
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// AIConfig selects which backends serve chat/scoring and embeddings.
type AIConfig struct {
	LLMProvider        string
	EmbeddingProvider  string
	EmbeddingDimension int
	EmbeddingTimeout   time.Duration
	OllamaURL          string
	OllamaEmbedModel   string
}

var (
	aiConfig *AIConfig
	aiOnce   sync.Once
)

func LoadAIConfig() *AIConfig {
	aiOnce.Do(func() {
		aiConfig = &AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", ProviderGemini),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", ProviderGemini),
			EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 768),
			EmbeddingTimeout:   getEnvDuration("EMBEDDING_TIMEOUT", 20*time.Second),
			OllamaURL:          getEnv("OLLAMA_URL", "http://127.0.0.1:11434"),
			OllamaEmbedModel:   getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		}
	})
	return aiConfig
}
