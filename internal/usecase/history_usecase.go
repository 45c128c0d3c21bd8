package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/repository"
	"github.com/fadilmartias/interview-minds/internal/response"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/google/uuid"
)

type VideoUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// HistoryUsecase reads stored interviews and attaches their recordings.
// videos may be nil when no object store is configured.
type HistoryUsecase struct {
	interviews InterviewStore
	videos     service.VideoStorage
}

func NewHistoryUsecase(interviews InterviewStore, videos service.VideoStorage) *HistoryUsecase {
	return &HistoryUsecase{interviews: interviews, videos: videos}
}

// Get loads an interview and signs a fresh playback URL for its recording.
// A signing failure leaves VideoURL empty rather than failing the read.
func (uc *HistoryUsecase) Get(ctx context.Context, ownerID string, id uuid.UUID) (*model.Interview, error) {
	interview, err := uc.find(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if interview.VideoKey == nil || uc.videos == nil {
		return interview, nil
	}
	url, err := uc.videos.PresignGet(ctx, *interview.VideoKey)
	if err != nil {
		logger.Warn().Err(err).Str("interview_id", id.String()).Msg("could not sign recording url")
		return interview, nil
	}
	interview.VideoURL = &url
	return interview, nil
}

func (uc *HistoryUsecase) find(ctx context.Context, ownerID string, id uuid.UUID) (*model.Interview, error) {
	interview, err := uc.interviews.FindInterview(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInterviewNotFound
	}
	return interview, err
}

func (uc *HistoryUsecase) List(ctx context.Context, ownerID string, page, pageSize int) ([]model.Interview, response.Pagination, error) {
	page, pageSize = response.NormalizePage(page, pageSize)
	interviews, total, err := uc.interviews.ListInterviews(ctx, ownerID, response.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return interviews, response.NewPagination(page, pageSize, len(interviews), total), nil
}

// AttachVideo uploads the recording, stores its object key on the interview
// and returns a playback URL. A recording can be attached only once.
func (uc *HistoryUsecase) AttachVideo(ctx context.Context, ownerID string, id uuid.UUID, video VideoUpload) (string, error) {
	if uc.videos == nil {
		return "", ErrVideoStorageUnavailable
	}
	interview, err := uc.find(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if interview.VideoKey != nil {
		return "", ErrVideoAlreadyAttached
	}

	ext := strings.ToLower(filepath.Ext(video.FileName))
	if ext == "" {
		ext = ".webm"
	}
	key := fmt.Sprintf("interviews/%s/recording%s", id, ext)

	if err := uc.videos.Upload(ctx, key, video.Body, video.Size, video.ContentType); err != nil {
		return "", fmt.Errorf("upload recording: %w", err)
	}

	switch err := uc.interviews.AttachVideo(ctx, id, ownerID, key); {
	case errors.Is(err, repository.ErrVideoAlreadySet):
		return "", ErrVideoAlreadyAttached
	case errors.Is(err, repository.ErrNotFound):
		return "", ErrInterviewNotFound
	case err != nil:
		return "", err
	}
	logger.Info().Str("interview_id", id.String()).Str("key", key).Msg("recording attached")

	url, err := uc.videos.PresignGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("sign recording url: %w", err)
	}
	return url, nil
}
