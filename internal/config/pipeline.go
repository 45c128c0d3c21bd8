package config

import "sync"

type PipelineConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	MinResumeChars int
	OCRFallback    bool
	MaxUploadBytes int
	MaxVideoBytes  int
}

var (
	pipelineConfig *PipelineConfig
	pipelineOnce   sync.Once
)

func LoadPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		pipelineConfig = &PipelineConfig{
			ChunkSize:      getEnvInt("CHUNK_SIZE", 500),
			ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 50),
			MinResumeChars: getEnvInt("MIN_RESUME_CHARS", 50),
			OCRFallback:    getEnvBool("PDF_OCR_FALLBACK", false),
			MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024),
			MaxVideoBytes:  getEnvInt("MAX_VIDEO_BYTES", 200*1024*1024),
		}
	})
	return pipelineConfig
}
