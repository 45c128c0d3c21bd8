package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/google/uuid"
)

const (
	retrievalTopK       = 3
	retrievalCandidates = 50

	matchedContextLimit  = 5000
	fallbackContextLimit = 8000
)

var errNoMatches = errors.New("vector search returned no chunks")

// RetrievalUsecase picks the resume text an interviewer turn is grounded on.
// Vector search is preferred; any failure degrades to the head of the raw
// resume text.
type RetrievalUsecase struct {
	resumes  ResumeStore
	embedder service.EmbeddingProvider
}

func NewRetrievalUsecase(resumes ResumeStore, embedder service.EmbeddingProvider) *RetrievalUsecase {
	return &RetrievalUsecase{resumes: resumes, embedder: embedder}
}

// Retrieve never fails. When the resume itself cannot be loaded the context
// is empty.
func (uc *RetrievalUsecase) Retrieve(ctx context.Context, query, ownerID string, resumeID uuid.UUID) string {
	resume, err := uc.resumes.FindResume(ctx, resumeID, ownerID)
	if err != nil {
		logger.Warn().Err(err).Str("resume_id", resumeID.String()).Msg("resume unavailable, continuing without context")
		return ""
	}

	matched, err := uc.search(ctx, query, resume)
	if err == nil {
		return util.TruncateRunes(matched, matchedContextLimit)
	}

	logger.Warn().Err(err).Str("resume_id", resumeID.String()).Msg("retrieval degraded, using raw resume text")
	return util.TruncateRunes(resume.FullText, fallbackContextLimit)
}

func (uc *RetrievalUsecase) search(ctx context.Context, query string, resume *model.Resume) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("empty query")
	}
	vec, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(vec) == 0 {
		return "", fmt.Errorf("embed query: empty vector")
	}
	if resume.EmbeddingDimension > 0 && len(vec) != resume.EmbeddingDimension {
		return "", fmt.Errorf("query dimension %d does not match resume dimension %d", len(vec), resume.EmbeddingDimension)
	}

	matches, err := uc.resumes.SearchChunks(ctx, resume.ID, vec, retrievalTopK, retrievalCandidates)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m.Content); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", errNoMatches
	}
	return strings.Join(parts, "\n\n"), nil
}
