package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/interview-minds/internal/mocks"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringFixture(t *testing.T, llm *mocks.LLM) (*ScoringUsecase, *mocks.InterviewStore, uuid.UUID) {
	t.Helper()
	resumes := mocks.NewResumeStore()
	interviews := mocks.NewInterviewStore()
	resumeID := seedResume(resumes, "owner-1", "resume", nil, nil)
	uc, err := NewScoringUsecase(llm, resumes, interviews)
	require.NoError(t, err)
	return uc, interviews, resumeID
}

var answeredHistory = []model.Turn{
	{Role: "model", Text: "How do you handle retries?"},
	{Role: "user", Text: "Exponential backoff with jitter and idempotency keys."},
}

func TestScoreZeroInteractionSkipsModel(t *testing.T) {
	for name, history := range map[string][]model.Turn{
		"empty":            nil,
		"interviewer only": {{Role: "model", Text: "Tell me about yourself."}, {Role: "assistant", Text: "Hello?"}},
		"blank answers":    {{Role: "model", Text: "Hi"}, {Role: "user", Text: "  "}},
	} {
		t.Run(name, func(t *testing.T) {
			llm := &mocks.LLM{Reply: `{"summary":"great","metrics":{}}`}
			uc, interviews, resumeID := newScoringFixture(t, llm)

			got, err := uc.Score(context.Background(), "owner-1", resumeID, history)

			require.NoError(t, err)
			assert.Zero(t, llm.CallCount())
			assert.Equal(t, 0, got.Score)
			assert.Equal(t, ZeroInteractionSummary, got.Feedback)
			assert.Equal(t, model.EvaluationZeroInteraction, got.Evaluation)
			require.Len(t, got.Metrics, len(Rubric))
			for _, m := range got.Metrics {
				assert.Zero(t, m.Value)
				assert.Equal(t, 100, m.Max)
			}
			assert.Len(t, interviews.All(), 1)
		})
	}
}

func TestScoreAnalyzed(t *testing.T) {
	llm := &mocks.LLM{Reply: "```json\n" + `{
		"score": 95,
		"summary": "Solid grasp of resilience patterns.",
		"metrics": {"content": 80, "communication": 70, "behavior": 90, "domain": 60},
		"strengths": ["retries", " "],
		"improvements": ["observability"]
	}` + "\n```"}
	uc, interviews, resumeID := newScoringFixture(t, llm)

	got, err := uc.Score(context.Background(), "owner-1", resumeID, answeredHistory)

	require.NoError(t, err)
	assert.Equal(t, 73, got.Score, "weighted recomputation wins over the model's 95")
	assert.Equal(t, "Solid grasp of resilience patterns.", got.Feedback)
	assert.Equal(t, model.EvaluationAnalyzed, got.Evaluation)
	assert.Equal(t, []string{"retries"}, []string(got.Strengths))
	assert.Equal(t, []string{"observability"}, []string(got.Improvements))
	assert.Equal(t, []model.Metric{
		{Dimension: "Content", Value: 80, Max: 100},
		{Dimension: "Communication", Value: 70, Max: 100},
		{Dimension: "Behavior", Value: 90, Max: 100},
		{Dimension: "Domain", Value: 60, Max: 100},
	}, []model.Metric(got.Metrics))

	req := llm.LastRequest()
	assert.True(t, req.JSON)
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.Contains(t, req.System, "communication (weight 25%)")
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Text, "Candidate: Exponential backoff")
	assert.Contains(t, req.Messages[0].Text, "Interviewer: How do you handle retries?")

	stored := interviews.All()
	require.Len(t, stored, 1)
	assert.Equal(t, got.ID, stored[0].ID)
	assert.Equal(t, model.RoleAssistant, stored[0].Transcript[0].Role)
}

func TestScoreFallsBack(t *testing.T) {
	tests := map[string]*mocks.LLM{
		"not json":          {Reply: "The candidate did well overall."},
		"metric over range": {Reply: `{"summary":"ok","metrics":{"content":150,"communication":70,"behavior":90,"domain":60}}`},
		"missing dimension": {Reply: `{"summary":"ok","metrics":{"content":80,"communication":70,"behavior":90}}`},
		"missing summary":   {Reply: `{"metrics":{"content":80,"communication":70,"behavior":90,"domain":60}}`},
		"model call failed": {Err: errors.New("deadline exceeded")},
	}
	for name, llm := range tests {
		t.Run(name, func(t *testing.T) {
			uc, interviews, resumeID := newScoringFixture(t, llm)

			got, err := uc.Score(context.Background(), "owner-1", resumeID, answeredHistory)

			require.NoError(t, err)
			assert.Equal(t, FallbackScore, got.Score)
			assert.Equal(t, FallbackSummary, got.Feedback)
			assert.Equal(t, model.EvaluationFallback, got.Evaluation)
			assert.Equal(t, ZeroMetrics(), []model.Metric(got.Metrics))
			assert.Len(t, interviews.All(), 1)
		})
	}
}

func TestScoreUnknownResume(t *testing.T) {
	llm := &mocks.LLM{}
	uc, interviews, resumeID := newScoringFixture(t, llm)

	_, err := uc.Score(context.Background(), "owner-2", resumeID, answeredHistory)

	require.ErrorIs(t, err, ErrResumeNotFound)
	assert.Empty(t, interviews.All())
	assert.Zero(t, llm.CallCount())
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("Here you go: {\"a\":1} hope it helps"))
	assert.Equal(t, "no json", stripCodeFences("no json"))
}
