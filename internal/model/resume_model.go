package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Resume struct {
	ID                 uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID            string        `gorm:"type:varchar(191);index;not null" json:"owner_id"`
	FileName           string        `gorm:"type:varchar(255)" json:"file_name"`
	FullText           string        `gorm:"type:text;not null" json:"full_text"`
	EmbeddingModel     string        `gorm:"type:varchar(128)" json:"embedding_model"`
	EmbeddingDimension int           `json:"embedding_dimension"`
	Chunks             []ResumeChunk `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"chunks,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// ResumeChunk keeps the chunk order of the source text in Position.
type ResumeChunk struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResumeID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"resume_id"`
	Position  int             `gorm:"not null" json:"position"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Embedding pgvector.Vector `gorm:"type:vector" json:"embedding"`
}

func (c *ResumeChunk) TableName() string {
	return "resume_chunks"
}
