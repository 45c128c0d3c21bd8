package usecase

import (
	"math"

	"github.com/fadilmartias/interview-minds/internal/model"
)

const metricMax = 100

type RubricDimension struct {
	Key      string
	Label    string
	Weight   float64
	Criteria string
}

// Rubric weights sum to 1.
var Rubric = []RubricDimension{
	{Key: "content", Label: "Content", Weight: 0.30, Criteria: "technical accuracy, depth and correctness of the answers"},
	{Key: "communication", Label: "Communication", Weight: 0.25, Criteria: "clarity, structure and conciseness"},
	{Key: "behavior", Label: "Behavior", Weight: 0.15, Criteria: "professionalism, composure and attitude under pressure"},
	{Key: "domain", Label: "Domain", Weight: 0.30, Criteria: "knowledge of the role's domain, tools and practices"},
}

// WeightedScore is round(sum(value_i * weight_i)) over the rubric, clamped to
// 0-100. Missing dimensions count as 0.
func WeightedScore(values map[string]float64) int {
	total := 0.0
	for _, d := range Rubric {
		total += clampMetric(values[d.Key]) * d.Weight
	}
	return int(math.Round(clampMetric(total)))
}

// ZeroMetrics has one zero entry per rubric dimension.
func ZeroMetrics() []model.Metric {
	return buildMetrics(nil)
}

func buildMetrics(values map[string]float64) []model.Metric {
	metrics := make([]model.Metric, len(Rubric))
	for i, d := range Rubric {
		metrics[i] = model.Metric{
			Dimension: d.Label,
			Value:     int(math.Round(clampMetric(values[d.Key]))),
			Max:       metricMax,
		}
	}
	return metrics
}

func clampMetric(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > metricMax:
		return metricMax
	}
	return v
}

// scoreSchema describes the JSON the scoring model must return.
func scoreSchema() map[string]any {
	number := map[string]any{"type": "number", "minimum": 0, "maximum": metricMax}
	dims := make(map[string]any, len(Rubric))
	required := make([]string, 0, len(Rubric))
	for _, d := range Rubric {
		dims[d.Key] = number
		required = append(required, d.Key)
	}
	stringList := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	return map[string]any{
		"type":     "object",
		"required": []string{"summary", "metrics"},
		"properties": map[string]any{
			"score":   number,
			"summary": map[string]any{"type": "string", "minLength": 1},
			"metrics": map[string]any{
				"type":       "object",
				"required":   required,
				"properties": dims,
			},
			"strengths":    stringList,
			"improvements": stringList,
		},
	}
}
