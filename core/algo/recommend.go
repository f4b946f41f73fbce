package algo

import (
	"fmt"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// Recommendation thresholds on contributor shares and counts.
const (
	dominantShare      = 0.5
	recruitShare       = 0.7
	monitorShare       = 0.4
	top3Share          = 0.8
	fewContributors    = 3
	smallContributors  = 5
	soloMaxContributor = 3
)

// Recommend returns actionable suggestions derived from the profiles, statistics
// and activity distribution. It always returns at least one entry.
func Recommend(in RiskInput, dist schema.ActivityDistribution, cfg contract.AnalysisConfig) []string {
	var recs []string
	n := len(in.Ranked)

	if n > 0 && n <= soloMaxContributor && dist.Top1Share > dominantShare {
		top := in.Ranked[0]
		if top.Classification.Category != schema.CompanyDomain {
			switch top.Trend {
			case schema.DecreasingTrend:
				recs = append(recs, fmt.Sprintf("Abandonment risk: primary contributor %s has no company affiliation and declining activity", top.DisplayName))
			case schema.StableTrend, schema.IncreasingTrend:
				recs = append(recs, fmt.Sprintf("Capacity risk: project depends on %s without company backing, a single point of failure", top.DisplayName))
			}
		}
	}

	ceiling := cfg.LatencyCeilingHours
	if ceiling <= 0 {
		ceiling = contract.DefaultLatencyCeilingHours
	}
	if hours := in.Stats.MedianLatencyHours(); hours > ceiling {
		recs = append(recs, fmt.Sprintf("Slow response: median latency %.1f days exceeds %.1f days, fixes may ship late", hours/24, ceiling/24))
	}

	switch {
	case dist.Top1Share > recruitShare:
		recs = append(recs, "Recruit additional maintainers to reduce dependency on a single contributor")
	case dist.Top1Share > monitorShare:
		recs = append(recs, "Monitor contributor diversity, one person does a large portion of the work")
	}

	switch {
	case n < fewContributors:
		recs = append(recs, "Very few active contributors, prioritize community building")
	case n < smallContributors:
		recs = append(recs, "Low contributor count, encourage more community participation")
	}

	if dist.Top3Share > top3Share && n > fewContributors {
		recs = append(recs, "Top 3 contributors handle most activity, invest in knowledge sharing and mentoring")
	}

	if len(recs) == 0 {
		recs = append(recs, "Project shows healthy contributor diversity and activity distribution")
	}
	return recs
}
