package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ChunkMatch is one nearest-neighbour hit for a query vector.
type ChunkMatch struct {
	Position int
	Content  string
	Distance float64
}

type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db}
}

// CreateResume writes the resume and all of its chunks or nothing.
func (r *ResumeRepository) CreateResume(ctx context.Context, resume *model.Resume) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chunks := resume.Chunks
		resume.Chunks = nil
		if err := tx.Create(resume).Error; err != nil {
			resume.Chunks = chunks
			return fmt.Errorf("insert resume: %w", err)
		}
		for i := range chunks {
			chunks[i].ResumeID = resume.ID
		}
		resume.Chunks = chunks
		if len(chunks) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(resume.Chunks, 100).Error; err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		return nil
	})
}

// FindResume loads a resume without its chunks. Resumes of other owners are
// reported as ErrNotFound.
func (r *ResumeRepository) FindResume(ctx context.Context, id uuid.UUID, ownerID string) (*model.Resume, error) {
	var resume model.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// SearchChunks returns up to topK chunks of one resume ordered by cosine
// distance to embedding. candidates sizes the HNSW search pool.
func (r *ResumeRepository) SearchChunks(ctx context.Context, resumeID uuid.UUID, embedding []float32, topK, candidates int) ([]ChunkMatch, error) {
	var matches []ChunkMatch
	vec := pgvector.NewVector(embedding)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if candidates > 0 {
			// SET does not accept bind parameters
			if err := tx.Exec(fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", candidates)).Error; err != nil {
				return err
			}
		}
		return tx.Raw(`
			SELECT position, content, embedding <=> ? AS distance
			FROM resume_chunks
			WHERE resume_id = ?
			ORDER BY embedding <=> ?
			LIMIT ?
		`, vec, resumeID, vec, topK).Scan(&matches).Error
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
