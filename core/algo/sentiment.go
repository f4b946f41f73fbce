// Package algo has the scoring engines for sentiment, repository statistics and risk.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// Summarize aggregates scored texts per contributor and for the whole repository.
// Scores are clamped to [-1, 1] before bucketing. The result does not depend on the
// order of scores. The repository summary is never nil, even when no scores were collected.
func Summarize(scores []schema.ScoredText, thresholds contract.SentimentThresholds) (map[string]*schema.SentimentSummary, *schema.SentimentSummary) {
	grouped := make(map[string][]float64)
	all := make([]float64, 0, len(scores))
	for _, s := range scores {
		v := clamp(s.Score, -1, 1)
		grouped[s.ContributorID] = append(grouped[s.ContributorID], v)
		all = append(all, v)
	}

	perContributor := make(map[string]*schema.SentimentSummary, len(grouped))
	for id, values := range grouped {
		perContributor[id] = summarizeValues(values, thresholds)
	}
	return perContributor, summarizeValues(all, thresholds)
}

// Bucket places a clamped score into the positive, neutral or negative bucket.
func Bucket(score float64, thresholds contract.SentimentThresholds) string {
	switch {
	case score > thresholds.Positive:
		return "positive"
	case score < thresholds.Negative:
		return "negative"
	default:
		return "neutral"
	}
}

func summarizeValues(values []float64, thresholds contract.SentimentThresholds) *schema.SentimentSummary {
	summary := &schema.SentimentSummary{SampleCount: len(values)}
	if len(values) == 0 {
		return summary
	}
	// Summation order is fixed so permuted input yields identical floats.
	slices.Sort(values)

	var total float64
	for _, v := range values {
		total += v
		switch Bucket(v, thresholds) {
		case "positive":
			summary.Distribution.Positive++
		case "negative":
			summary.Distribution.Negative++
		default:
			summary.Distribution.Neutral++
		}
	}
	mean := total / float64(len(values))

	// Population variance
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	summary.MeanScore = mean
	summary.Stdev = math.Sqrt(sq / float64(len(values)))
	return summary
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// clamp01 bounds a normalized metric to [0, 1].
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
