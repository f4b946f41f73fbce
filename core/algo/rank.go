package algo

import (
	"sort"

	"github.com/huangsam/steward/schema"
)

// RankByRisk orders successful results by overall risk score descending, ties by repository ID.
func RankByRisk(results []schema.RepositoryResult) []schema.RankedRepository {
	return rankBy(results, func(r *schema.Report) float64 { return r.Risk.OverallScore })
}

// RankByCommitFrequency orders successful results by commits per day descending, ties by repository ID.
func RankByCommitFrequency(results []schema.RepositoryResult) []schema.RankedRepository {
	return rankBy(results, func(r *schema.Report) float64 { return r.Stats.CommitFrequency })
}

// SummarizeComparison builds the comparison summary for a batch of results.
func SummarizeComparison(results []schema.RepositoryResult) schema.ComparisonSummary {
	summary := schema.ComparisonSummary{
		ByRisk:            RankByRisk(results),
		ByCommitFrequency: RankByCommitFrequency(results),
		SeverityCounts:    make(map[schema.Severity]int, len(schema.AllSeverities)),
	}
	for _, sev := range schema.AllSeverities {
		summary.SeverityCounts[sev] = 0
	}
	for _, r := range results {
		if r.Status != schema.OKStatus || r.Report == nil {
			summary.Errors++
			continue
		}
		summary.OK++
		summary.SeverityCounts[r.Report.Risk.Severity]++
	}
	return summary
}

func rankBy(results []schema.RepositoryResult, value func(*schema.Report) float64) []schema.RankedRepository {
	ranked := make([]schema.RankedRepository, 0, len(results))
	for _, r := range results {
		if r.Status != schema.OKStatus || r.Report == nil {
			continue
		}
		ranked = append(ranked, schema.RankedRepository{RepositoryID: r.RepositoryID, Value: value(r.Report)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].RepositoryID < ranked[j].RepositoryID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
