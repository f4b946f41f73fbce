package algo

import (
	"fmt"
	"sort"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// RiskInput holds everything the risk engine looks at for one repository.
type RiskInput struct {
	Ranked    []schema.ContributorProfile // sorted by total activity desc
	Stats     schema.RepositoryStats
	Sentiment *schema.SentimentSummary // nil when sentiment is disabled
}

// AssessRisk computes the factor sub-scores, the weighted overall score and the severity.
// The negative sentiment factor is only present when sentiment was collected.
func AssessRisk(in RiskInput, cfg contract.AnalysisConfig) schema.RiskAssessment {
	factors := []schema.RiskFactor{
		concentrationFactor(in.Ranked),
		trendFactor(in.Ranked),
		latencyFactor(in.Stats, cfg.LatencyCeilingHours),
		closeRateFactor(in.Stats),
	}
	if in.Sentiment != nil {
		factors = append(factors, sentimentFactor(in.Sentiment))
	}

	for i := range factors {
		factors[i].Weight = cfg.Weights[factors[i].Name]
		factors[i].Contribution = factors[i].Weight * factors[i].SubScore
	}
	SortFactors(factors)

	overall := OverallScore(factors)
	return schema.RiskAssessment{
		OverallScore:        overall,
		Severity:            ClassifySeverity(overall, cfg.Thresholds),
		ContributingFactors: factors,
	}
}

// OverallScore sums the factor contributions and clips the result to [0, 100].
func OverallScore(factors []schema.RiskFactor) float64 {
	var total float64
	for _, f := range factors {
		total += f.Contribution
	}
	return clamp(total, 0, 100)
}

// ClassifySeverity maps an overall score to a severity band.
func ClassifySeverity(score float64, t schema.SeverityThresholds) schema.Severity {
	switch {
	case score < t.Low:
		return schema.LowSeverity
	case score < t.Medium:
		return schema.MediumSeverity
	case score < t.High:
		return schema.HighSeverity
	default:
		return schema.CriticalSeverity
	}
}

// SortFactors orders factors by contribution descending, ties by name.
func SortFactors(factors []schema.RiskFactor) {
	sort.SliceStable(factors, func(i, j int) bool {
		if factors[i].Contribution != factors[j].Contribution {
			return factors[i].Contribution > factors[j].Contribution
		}
		return factors[i].Name < factors[j].Name
	})
}

// ConcentrationSubScore maps the top contributor share to 0-100.
// Shares at or below one half score 0 and a sole contributor scores 100.
func ConcentrationSubScore(topShare float64) float64 {
	return clamp01((topShare-0.5)/0.5) * 100
}

func concentrationFactor(ranked []schema.ContributorProfile) schema.RiskFactor {
	f := schema.RiskFactor{Name: schema.FactorConcentration}
	total := 0
	for _, p := range ranked {
		total += p.TotalActivity
	}
	if total == 0 {
		f.SubScore = 100
		f.Observation = "no contributor activity in window"
		return f
	}
	top := ranked[0]
	share := float64(top.TotalActivity) / float64(total)
	f.SubScore = ConcentrationSubScore(share)
	f.Observation = fmt.Sprintf("%s holds %.1f%% of activity across %d contributors", top.DisplayName, share*100, len(ranked))
	return f
}

func trendFactor(ranked []schema.ContributorProfile) schema.RiskFactor {
	f := schema.RiskFactor{Name: schema.FactorTrendDecline}
	trended, decreasing := 0, 0
	for _, p := range ranked {
		switch p.Trend {
		case schema.InsufficientDataTrend:
			continue
		case schema.DecreasingTrend:
			decreasing++
		}
		trended++
	}
	if trended == 0 {
		f.Observation = "no contributors with enough activity to trend"
		return f
	}
	f.SubScore = float64(decreasing) / float64(trended) * 100
	f.Observation = fmt.Sprintf("%d of %d trended contributors are decreasing", decreasing, trended)
	return f
}

func latencyFactor(stats schema.RepositoryStats, ceilingHours float64) schema.RiskFactor {
	f := schema.RiskFactor{Name: schema.FactorResponseLatency}
	if stats.MedianResponseLatency == nil {
		f.Observation = "no response latency samples"
		return f
	}
	if ceilingHours <= 0 {
		ceilingHours = contract.DefaultLatencyCeilingHours
	}
	hours := stats.MedianLatencyHours()
	f.SubScore = clamp01(hours/ceilingHours) * 100
	f.Observation = fmt.Sprintf("median response latency %.1fh over %d samples", hours, stats.LatencySamples)
	return f
}

func closeRateFactor(stats schema.RepositoryStats) schema.RiskFactor {
	f := schema.RiskFactor{Name: schema.FactorCloseRate}
	if stats.Opened == 0 {
		f.Observation = "no items opened"
		return f
	}
	f.SubScore = (1 - min(stats.CloseRate, 1)) * 100
	f.Observation = fmt.Sprintf("closed %d of %d opened items (rate %.2f)", stats.Closed, stats.Opened, stats.CloseRate)
	return f
}

func sentimentFactor(s *schema.SentimentSummary) schema.RiskFactor {
	f := schema.RiskFactor{Name: schema.FactorNegativeSentiment}
	if s.SampleCount == 0 {
		f.Observation = "no texts scored"
		return f
	}
	f.SubScore = s.NegativeShare() * 100
	f.Observation = fmt.Sprintf("%d of %d scored texts are negative", s.Distribution.Negative, s.SampleCount)
	return f
}
