package usecase

import (
	"context"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/repository"
	"github.com/google/uuid"
)

type ResumeStore interface {
	CreateResume(ctx context.Context, resume *model.Resume) error
	FindResume(ctx context.Context, id uuid.UUID, ownerID string) (*model.Resume, error)
	SearchChunks(ctx context.Context, resumeID uuid.UUID, embedding []float32, topK, candidates int) ([]repository.ChunkMatch, error)
}

type InterviewStore interface {
	CreateInterview(ctx context.Context, interview *model.Interview) error
	FindInterview(ctx context.Context, id uuid.UUID, ownerID string) (*model.Interview, error)
	ListInterviews(ctx context.Context, ownerID string, offset, limit int) ([]model.Interview, int64, error)
	AttachVideo(ctx context.Context, id uuid.UUID, ownerID, key string) error
}
