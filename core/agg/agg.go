package agg

import (
	"slices"
	"sort"
	"time"

	"github.com/huangsam/steward/core/classify"
	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// contributorState is the write-once-per-run accumulator for one contributor.
type contributorState struct {
	profile    *schema.ContributorProfile
	nameCounts map[string]int
	emails     map[string]struct{}
}

// Aggregate groups events by contributor and builds finalized profiles keyed by contributor ID.
// The output does not depend on the order of events. The cache is owned by the caller's run.
func Aggregate(events []schema.ContributorEvent, window schema.Window, trend contract.TrendConfig, cache *classify.Cache) map[string]*schema.ContributorProfile {
	if trend.Buckets < 2 {
		trend.Buckets = contract.DefaultTrendBuckets
	}
	states := make(map[string]*contributorState)
	grandTotal := 0

	// Pass 1: accumulate counts, names, emails, first/last and buckets
	for _, ev := range events {
		st, ok := states[ev.ContributorID]
		if !ok {
			st = &contributorState{
				profile: &schema.ContributorProfile{
					RepositoryID:  ev.RepositoryID,
					ContributorID: ev.ContributorID,
					Counts:        make(map[schema.EventType]int),
					Buckets:       make([]int, trend.Buckets),
				},
				nameCounts: make(map[string]int),
				emails:     make(map[string]struct{}),
			}
			states[ev.ContributorID] = st
		}

		p := st.profile
		p.Counts[ev.Type]++
		p.TotalActivity++
		grandTotal++

		if p.FirstActivity.IsZero() || ev.Timestamp.Before(p.FirstActivity) {
			p.FirstActivity = ev.Timestamp
		}
		if ev.Timestamp.After(p.LastActivity) {
			p.LastActivity = ev.Timestamp
		}
		p.Buckets[BucketIndex(ev.Timestamp, window, trend.Buckets)]++

		if ev.DisplayName != "" {
			st.nameCounts[ev.DisplayName]++
		}
		if ev.Email != "" {
			st.emails[ev.Email] = struct{}{}
		}
	}

	// Pass 2: finalize identity, classification, share and trend
	profiles := make(map[string]*schema.ContributorProfile, len(states))
	for id, st := range states {
		p := st.profile
		p.DisplayName = pickDisplayName(st.nameCounts, id)
		p.Emails = sortedKeys(st.emails)
		p.Classification = classifyEmails(p.Emails, cache)
		if grandTotal > 0 {
			p.ActivityShare = float64(p.TotalActivity) / float64(grandTotal)
		}
		p.Trend = ComputeTrend(p.Buckets, p.TotalActivity, window.Days, trend)
		profiles[id] = p
	}
	return profiles
}

// BucketIndex returns the bucket of t among n equal sub-intervals of the window.
// The window end falls into the last bucket.
func BucketIndex(t time.Time, window schema.Window, n int) int {
	span := window.End.Sub(window.Start)
	if span <= 0 || n <= 1 {
		return 0
	}
	offset := t.Sub(window.Start)
	idx := int(float64(offset) / float64(span) * float64(n))
	return min(max(idx, 0), n-1)
}

// ComputeTrend compares activity in the earlier half of the buckets against the later half.
func ComputeTrend(buckets []int, total, windowDays int, cfg contract.TrendConfig) schema.Trend {
	if total < cfg.MinEvents || windowDays < 2 || len(buckets) < 2 {
		return schema.InsufficientDataTrend
	}

	half := len(buckets) / 2
	earlier, later := 0, 0
	for i, c := range buckets {
		if i < half {
			earlier += c
		} else {
			later += c
		}
	}

	e, l := float64(earlier), float64(later)
	switch {
	case earlier == 0 && later > 0:
		return schema.IncreasingTrend
	case l > e*(1+cfg.Threshold):
		return schema.IncreasingTrend
	case l < e*(1-cfg.Threshold):
		return schema.DecreasingTrend
	default:
		return schema.StableTrend
	}
}

// RankContributors returns profiles sorted by total activity descending, ties by contributor ID.
func RankContributors(profiles map[string]*schema.ContributorProfile) []schema.ContributorProfile {
	ranked := make([]schema.ContributorProfile, 0, len(profiles))
	for _, p := range profiles {
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalActivity != ranked[j].TotalActivity {
			return ranked[i].TotalActivity > ranked[j].TotalActivity
		}
		return ranked[i].ContributorID < ranked[j].ContributorID
	})
	return ranked
}

// pickDisplayName returns the most frequent name, ties broken lexicographically.
func pickDisplayName(counts map[string]int, fallback string) string {
	best, bestCount := "", 0
	for name, c := range counts {
		if c > bestCount || (c == bestCount && name < best) {
			best, bestCount = name, c
		}
	}
	if best == "" {
		return fallback
	}
	return best
}

// classifyEmails uses the first sorted email whose category is known, else the first email.
func classifyEmails(emails []string, cache *classify.Cache) schema.DomainClassification {
	if len(emails) == 0 {
		return cache.Classify("")
	}
	for _, e := range emails {
		if c := cache.Classify(e); c.Category != schema.UnknownDomain {
			return c
		}
	}
	return cache.Classify(emails[0])
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
