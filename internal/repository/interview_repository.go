package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db}
}

func (r *InterviewRepository) CreateInterview(ctx context.Context, interview *model.Interview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *InterviewRepository) FindInterview(ctx context.Context, id uuid.UUID, ownerID string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// ListInterviews returns one page of the owner's interviews, newest first,
// together with the owner's total count.
func (r *InterviewRepository) ListInterviews(ctx context.Context, ownerID string, offset, limit int) ([]model.Interview, int64, error) {
	var (
		interviews []model.Interview
		total      int64
	)
	q := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("owner_id = ?", ownerID).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&interviews).Error
	return interviews, total, err
}

// AttachVideo sets the recording's object key once. A second attach returns
// ErrVideoAlreadySet.
func (r *InterviewRepository) AttachVideo(ctx context.Context, id uuid.UUID, ownerID, key string) error {
	res := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("id = ? AND owner_id = ? AND video_key IS NULL", id, ownerID).
		Update("video_key", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVideoAlreadySet
}
