package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/fadilmartias/interview-minds/internal/config"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/pgvector/pgvector-go"
)

// IngestionUsecase turns an uploaded PDF into a stored resume with embedded
// chunks. A failure at any stage leaves nothing behind.
type IngestionUsecase struct {
	resumes   ResumeStore
	extractor service.DocumentExtractor
	embedder  service.EmbeddingProvider

	chunkSize    int
	chunkOverlap int
	minChars     int
}

func NewIngestionUsecase(resumes ResumeStore, extractor service.DocumentExtractor, embedder service.EmbeddingProvider, cfg *config.PipelineConfig) *IngestionUsecase {
	return &IngestionUsecase{
		resumes:      resumes,
		extractor:    extractor,
		embedder:     embedder,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		minChars:     cfg.MinResumeChars,
	}
}

func (uc *IngestionUsecase) Ingest(ctx context.Context, ownerID, fileName string, raw []byte) (*model.Resume, error) {
	text, err := uc.extractor.ExtractText(ctx, raw)
	if err != nil {
		return nil, newIngestError(StageExtract, fileName, ErrExtractionFailed, err.Error())
	}
	return uc.IngestText(ctx, ownerID, fileName, text)
}

// IngestText runs the pipeline from already extracted text onward.
func (uc *IngestionUsecase) IngestText(ctx context.Context, ownerID, fileName, text string) (*model.Resume, error) {
	text = util.CleanExtractedText(text)
	if n := utf8.RuneCountInString(text); n < uc.minChars {
		return nil, newIngestError(StageValidate, fileName, ErrInsufficientContent,
			fmt.Sprintf("extracted %d characters, need at least %d", n, uc.minChars))
	}

	chunks := util.ChunkText(text, uc.chunkSize, uc.chunkOverlap)
	if len(chunks) == 0 {
		return nil, newIngestError(StageChunk, fileName, ErrInsufficientContent, "no chunks produced")
	}

	vectors, err := uc.embedder.EmbedMany(ctx, chunks)
	if err != nil {
		return nil, newIngestError(StageEmbed, fileName, ErrEmbeddingFailed, err.Error())
	}
	dim, err := checkChunkVectors(vectors, len(chunks))
	if err != nil {
		return nil, newIngestError(StageEmbed, fileName, ErrEmbeddingFailed, err.Error())
	}

	resume := &model.Resume{
		OwnerID:            ownerID,
		FileName:           fileName,
		FullText:           text,
		EmbeddingModel:     uc.embedder.Name(),
		EmbeddingDimension: dim,
		Chunks:             make([]model.ResumeChunk, len(chunks)),
	}
	for i, c := range chunks {
		resume.Chunks[i] = model.ResumeChunk{
			Position:  i,
			Content:   c,
			Embedding: pgvector.NewVector(vectors[i]),
		}
	}

	if err := uc.resumes.CreateResume(ctx, resume); err != nil {
		return nil, newIngestError(StagePersist, fileName, ErrStorageFailed, err.Error())
	}

	logger.Info().
		Str("resume_id", resume.ID.String()).
		Str("owner_id", ownerID).
		Int("chunks", len(chunks)).
		Int("dimension", dim).
		Msg("resume ingested")
	return resume, nil
}

// checkChunkVectors returns the shared dimension of vectors.
func checkChunkVectors(vectors [][]float32, want int) (int, error) {
	if len(vectors) != want {
		return 0, fmt.Errorf("got %d vectors for %d chunks", len(vectors), want)
	}
	dim := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, fmt.Errorf("vector %d is empty", i)
		}
		if i == 0 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return 0, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return dim, nil
}
