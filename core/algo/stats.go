package algo

import (
	"slices"
	"time"

	"github.com/huangsam/steward/schema"
)

// ComputeStats derives repository-level statistics from normalized events.
// CloseRate is the raw ratio and may exceed 1 when items opened before the
// window are closed inside it.
func ComputeStats(events []schema.ContributorEvent, windowDays int) schema.RepositoryStats {
	stats := schema.RepositoryStats{WindowDays: windowDays}
	latencies := make([]time.Duration, 0)

	for _, ev := range events {
		switch ev.Type {
		case schema.CommitEvent:
			stats.Commits++
		case schema.IssueOpenedEvent:
			stats.IssuesOpened++
		case schema.PROpenedEvent:
			stats.PRsOpened++
		case schema.IssueClosedEvent, schema.PRClosedEvent:
			stats.Closed++
		case schema.PRMergedEvent:
			stats.PRsMerged++
			stats.Closed++
		}
		if ev.ResponseLatency != nil {
			latencies = append(latencies, *ev.ResponseLatency)
		}
	}

	stats.Opened = stats.IssuesOpened + stats.PRsOpened
	if stats.Opened > 0 {
		stats.CloseRate = float64(stats.Closed) / float64(stats.Opened)
	}
	if windowDays > 0 {
		stats.CommitFrequency = float64(stats.Commits) / float64(windowDays)
	}

	stats.LatencySamples = len(latencies)
	if len(latencies) > 0 {
		median := Median(latencies)
		mean := meanDuration(latencies)
		stats.MedianResponseLatency = &median
		stats.MeanResponseLatency = &mean
	}
	return stats
}

// Median returns the median duration, averaging the middle pair for even lengths.
// The input is not modified.
func Median(values []time.Duration) time.Duration {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1] + (sorted[mid]-sorted[mid-1])/2
}

func meanDuration(values []time.Duration) time.Duration {
	var total float64
	for _, v := range values {
		total += float64(v)
	}
	return time.Duration(total / float64(len(values)))
}

// ComputeDistribution returns the activity shares of the top 1, 3 and 5 contributors.
// Profiles must already be ranked by total activity.
func ComputeDistribution(ranked []schema.ContributorProfile) schema.ActivityDistribution {
	total := 0
	for _, p := range ranked {
		total += p.TotalActivity
	}
	if total == 0 {
		return schema.ActivityDistribution{}
	}
	topShare := func(n int) float64 {
		sum := 0
		for i := 0; i < n && i < len(ranked); i++ {
			sum += ranked[i].TotalActivity
		}
		return float64(sum) / float64(total)
	}
	return schema.ActivityDistribution{
		Top1Share: topShare(1),
		Top3Share: topShare(3),
		Top5Share: topShare(5),
	}
}
