package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/repository"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

const (
	ZeroInteractionSummary = "No answers from the candidate were recorded, so the interview could not be evaluated."
	FallbackSummary        = "Could not parse detailed feedback."
	FallbackScore          = 50

	scoringTemperature = 0.1
	scoringMaxRetries  = 2
	scoreDivergence    = 10
)

var codeFencePattern = regexp.MustCompile("```(?:json|JSON)?")

type evaluation struct {
	score        int
	summary      string
	metrics      []model.Metric
	strengths    []string
	improvements []string
	status       string
}

// ScoringUsecase grades a finished interview and stores the result.
type ScoringUsecase struct {
	llm        service.LLMServiceInterface
	resumes    ResumeStore
	interviews InterviewStore
	schema     *gojsonschema.Schema
}

func NewScoringUsecase(llm service.LLMServiceInterface, resumes ResumeStore, interviews InterviewStore) (*ScoringUsecase, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(scoreSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile score schema: %w", err)
	}
	return &ScoringUsecase{llm: llm, resumes: resumes, interviews: interviews, schema: schema}, nil
}

func (uc *ScoringUsecase) Score(ctx context.Context, ownerID string, resumeID uuid.UUID, history []model.Turn) (*model.Interview, error) {
	if _, err := uc.resumes.FindResume(ctx, resumeID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}

	transcript := make([]model.Turn, len(history))
	for i, t := range history {
		transcript[i] = model.Turn{Role: model.NormalizeRole(t.Role), Text: t.Text}
	}

	var eval evaluation
	if model.CountUserTurns(transcript) == 0 {
		eval = evaluation{
			score:   0,
			summary: ZeroInteractionSummary,
			metrics: ZeroMetrics(),
			status:  model.EvaluationZeroInteraction,

			strengths:    []string{},
			improvements: []string{},
		}
	} else {
		eval = uc.analyze(ctx, transcript)
	}

	interview := &model.Interview{
		OwnerID:      ownerID,
		ResumeID:     resumeID,
		Transcript:   transcript,
		Score:        eval.score,
		Feedback:     eval.summary,
		Strengths:    eval.strengths,
		Improvements: eval.improvements,
		Metrics:      eval.metrics,
		Evaluation:   eval.status,
	}
	if err := uc.interviews.CreateInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	logger.Info().
		Str("interview_id", interview.ID.String()).
		Str("owner_id", ownerID).
		Int("score", interview.Score).
		Str("evaluation", interview.Evaluation).
		Msg("interview scored")
	return interview, nil
}

func (uc *ScoringUsecase) analyze(ctx context.Context, transcript []model.Turn) evaluation {
	raw, err := uc.llm.Generate(ctx, service.GenerateRequest{
		System:      scoringInstruction(),
		Messages:    []model.Turn{{Role: model.RoleUser, Text: formatTranscript(transcript)}},
		Temperature: scoringTemperature,
		JSON:        true,
		MaxRetries:  scoringMaxRetries,
	})
	if err != nil {
		logger.Error().Err(err).Msg("scoring model call failed, using fallback evaluation")
		return fallbackEvaluation()
	}

	eval, err := uc.parseEvaluation(raw)
	if err != nil {
		logger.Warn().Err(err).Int("raw_length", len(raw)).Msg("scoring response unparsable, using fallback evaluation")
		return fallbackEvaluation()
	}
	return eval
}

// parseEvaluation validates the model output and recomputes the overall score
// from the dimension values.
func (uc *ScoringUsecase) parseEvaluation(raw string) (evaluation, error) {
	body := stripCodeFences(raw)
	if !gjson.Valid(body) {
		return evaluation{}, fmt.Errorf("response is not valid JSON")
	}

	result, err := uc.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return evaluation{}, fmt.Errorf("validate response: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return evaluation{}, fmt.Errorf("response does not match schema: %s", strings.Join(issues, "; "))
	}

	doc := gjson.Parse(body)
	values := make(map[string]float64, len(Rubric))
	for _, d := range Rubric {
		values[d.Key] = doc.Get("metrics." + d.Key).Float()
	}
	score := WeightedScore(values)

	if reported := doc.Get("score"); reported.Exists() {
		if diff := math.Abs(reported.Float() - float64(score)); diff > scoreDivergence {
			logger.Warn().
				Float64("model_score", reported.Float()).
				Int("weighted_score", score).
				Msg("model score diverges from weighted score")
		}
	}

	return evaluation{
		score:        score,
		summary:      strings.TrimSpace(doc.Get("summary").String()),
		metrics:      buildMetrics(values),
		strengths:    stringList(doc.Get("strengths")),
		improvements: stringList(doc.Get("improvements")),
		status:       model.EvaluationAnalyzed,
	}, nil
}

func fallbackEvaluation() evaluation {
	return evaluation{
		score:   FallbackScore,
		summary: FallbackSummary,
		metrics: ZeroMetrics(),
		status:  model.EvaluationFallback,

		strengths:    []string{},
		improvements: []string{},
	}
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func stringList(r gjson.Result) []string {
	out := make([]string, 0)
	for _, item := range r.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func formatTranscript(transcript []model.Turn) string {
	var sb strings.Builder
	sb.WriteString("--- TRANSCRIPT ---\n")
	for _, t := range transcript {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		speaker := "Interviewer"
		if t.Role == model.RoleUser {
			speaker = "Candidate"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, t.Text)
	}
	return sb.String()
}

func scoringInstruction() string {
	var dims, keys strings.Builder
	for i, d := range Rubric {
		fmt.Fprintf(&dims, "- %s (weight %.0f%%): %s\n", d.Key, d.Weight*100, d.Criteria)
		if i > 0 {
			keys.WriteString(", ")
		}
		fmt.Fprintf(&keys, "%q: <number 0-100>", d.Key)
	}

	return fmt.Sprintf(`You are a Senior Technical Hiring Manager. Grade the candidate's answers in the interview transcript.

Score each dimension from 0 to 100:
%s
The overall score is the weighted sum of the dimension scores.

Respond strictly with this JSON structure (no markdown, no extra text):
{
  "score": <number 0-100>,
  "summary": "<2 sentence summary of performance>",
  "metrics": {%s},
  "strengths": ["<point>", "<point>"],
  "improvements": ["<point>", "<point>"]
}`, dims.String(), keys.String())
}
