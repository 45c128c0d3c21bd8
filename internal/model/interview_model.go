package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EvaluationAnalyzed        = "analyzed"
	EvaluationZeroInteraction = "zero_interaction"
	EvaluationFallback        = "fallback"
)

type Metric struct {
	Dimension string `json:"dimension"`
	Value     int    `json:"value"`
	Max       int    `json:"max"`
}

type Interview struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID      string                      `gorm:"type:varchar(191);index;not null" json:"owner_id"`
	ResumeID     uuid.UUID                   `gorm:"type:uuid;index;not null" json:"resume_id"`
	Transcript   datatypes.JSONSlice[Turn]   `gorm:"type:jsonb" json:"transcript"`
	Score        int                         `gorm:"not null" json:"score"` // 0-100
	Feedback     string                      `gorm:"type:text" json:"feedback"`
	Strengths    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"strengths"`
	Improvements datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"improvements"`
	Metrics      datatypes.JSONSlice[Metric] `gorm:"type:jsonb" json:"metrics"`
	Evaluation   string                      `gorm:"type:varchar(32)" json:"evaluation"`
	VideoKey     *string                     `gorm:"type:text" json:"video_key,omitempty"`
	// VideoURL is signed on read from VideoKey and never stored.
	VideoURL     *string                     `gorm:"-" json:"video_url,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (i *Interview) TableName() string {
	return "interviews"
}
