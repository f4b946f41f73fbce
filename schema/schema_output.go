package schema

// EnrichedContributor adds presentation data to a ContributorProfile.
type EnrichedContributor struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ContributorProfile
}

// GetPlainLabel returns a plain text label for a severity tier.
func GetPlainLabel(severity Severity) string {
	switch severity {
	case CriticalSeverity:
		return "Critical"
	case HighSeverity:
		return "High"
	case MediumSeverity:
		return "Medium"
	default:
		return "Low"
	}
}

// GetShareLabel returns a label describing how much of the activity a contributor holds.
func GetShareLabel(share float64) string {
	switch {
	case share >= 0.5:
		return "Dominant"
	case share >= 0.2:
		return "Core"
	case share >= 0.05:
		return "Regular"
	default:
		return "Occasional"
	}
}

// EnrichContributors adds rank and label to a list of contributor profiles.
// The input is expected to already be in rank order.
func EnrichContributors(profiles []ContributorProfile) []EnrichedContributor {
	output := make([]EnrichedContributor, len(profiles))
	for i, p := range profiles {
		output[i] = EnrichedContributor{
			Rank:               i + 1,
			Label:              GetShareLabel(p.ActivityShare),
			ContributorProfile: p,
		}
	}
	return output
}

// ClassifiedEmail pairs an email address with its domain classification.
type ClassifiedEmail struct {
	Email string `json:"email"`
	DomainClassification
}
