package dto

import (
	"math"
	"time"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
)

type EndInterviewRequest struct {
	ResumeID string       `json:"resumeId"`
	History  []model.Turn `json:"history"`
}

type EndInterviewResponse struct {
	ID       uuid.UUID      `json:"id"`
	Score    int            `json:"score"`
	Feedback string         `json:"feedback"`
	Metrics  []model.Metric `json:"metrics"`
}

type InterviewDTO struct {
	ID           uuid.UUID      `json:"id"`
	ResumeID     uuid.UUID      `json:"resumeId"`
	Transcript   []model.Turn   `json:"transcript"`
	Score        int            `json:"score"`
	Rating       int            `json:"rating"`
	Feedback     string         `json:"feedback"`
	Strengths    []string       `json:"strengths"`
	Improvements []string       `json:"improvements"`
	Metrics      []model.Metric `json:"metrics"`
	Evaluation   string         `json:"evaluation"`
	VideoURL     *string        `json:"videoUrl"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// InterviewSummaryDTO is the dashboard projection of an interview.
type InterviewSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Score     int       `json:"score"`
	Rating    int       `json:"rating"`
	Summary   string    `json:"summary"`
}

type VideoUploadResponse struct {
	URL string `json:"url"`
}

// RatingFromScore converts a 0-100 score to the 0-10 rating shown to users.
func RatingFromScore(score int) int {
	return int(math.Round(float64(score) / 10))
}

func NewEndInterviewResponse(i *model.Interview) EndInterviewResponse {
	return EndInterviewResponse{
		ID:       i.ID,
		Score:    i.Score,
		Feedback: i.Feedback,
		Metrics:  i.Metrics,
	}
}

func NewInterviewDTO(i *model.Interview) InterviewDTO {
	return InterviewDTO{
		ID:           i.ID,
		ResumeID:     i.ResumeID,
		Transcript:   nonNil(i.Transcript),
		Score:        i.Score,
		Rating:       RatingFromScore(i.Score),
		Feedback:     i.Feedback,
		Strengths:    nonNil(i.Strengths),
		Improvements: nonNil(i.Improvements),
		Metrics:      nonNil(i.Metrics),
		Evaluation:   i.Evaluation,
		VideoURL:     i.VideoURL,
		CreatedAt:    i.CreatedAt,
	}
}

func NewInterviewSummaries(interviews []model.Interview) []InterviewSummaryDTO {
	out := make([]InterviewSummaryDTO, len(interviews))
	for i, in := range interviews {
		out[i] = InterviewSummaryDTO{
			ID:        in.ID,
			CreatedAt: in.CreatedAt,
			Score:     in.Score,
			Rating:    RatingFromScore(in.Score),
			Summary:   in.Feedback,
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
