package dto

import (
	"testing"
	"time"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRatingFromScore(t *testing.T) {
	cases := map[int]int{0: 0, 4: 0, 5: 1, 50: 5, 73: 7, 75: 8, 100: 10}
	for score, want := range cases {
		assert.Equal(t, want, RatingFromScore(score), "score %d", score)
	}
}

func TestNewInterviewDTOFillsEmptyLists(t *testing.T) {
	i := &model.Interview{ID: uuid.New(), Score: 50, CreatedAt: time.Now()}

	got := NewInterviewDTO(i)

	assert.NotNil(t, got.Transcript)
	assert.NotNil(t, got.Strengths)
	assert.NotNil(t, got.Metrics)
	assert.Equal(t, 5, got.Rating)
	assert.Nil(t, got.VideoURL)
}
