package schema

// Custom string types for type safety.
type (
	// EventType represents the kind of a normalized contributor event.
	EventType string

	// Trend represents the activity-trend direction of a contributor.
	Trend string

	// DomainCategory represents the affiliation class of an email domain.
	DomainCategory string

	// Severity represents the tier of a risk assessment.
	Severity string

	// FactorName represents keys used in the risk breakdown.
	FactorName string

	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the outcome of one repository analysis in a batch.
	Status string

	// DatabaseBackend represents the database backend for the analysis store.
	DatabaseBackend string

	// SourceKind represents the data source used to fetch raw records.
	SourceKind string

	// ScorerKind represents the sentiment scorer implementation.
	ScorerKind string
)

// All event types supported.
const (
	CommitEvent      EventType = "commit"
	IssueOpenedEvent EventType = "issue_opened"
	IssueClosedEvent EventType = "issue_closed"
	PROpenedEvent    EventType = "pr_opened"
	PRMergedEvent    EventType = "pr_merged"
	PRClosedEvent    EventType = "pr_closed"
	CommentEvent     EventType = "comment"
	ReviewEvent      EventType = "review"
)

// AllEventTypes lists event types in display order.
var AllEventTypes = []EventType{
	CommitEvent,
	IssueOpenedEvent,
	IssueClosedEvent,
	PROpenedEvent,
	PRMergedEvent,
	PRClosedEvent,
	CommentEvent,
	ReviewEvent,
}

// ValidEventTypes lists all valid event types.
var ValidEventTypes = map[EventType]struct{}{
	CommitEvent:      {},
	IssueOpenedEvent: {},
	IssueClosedEvent: {},
	PROpenedEvent:    {},
	PRMergedEvent:    {},
	PRClosedEvent:    {},
	CommentEvent:     {},
	ReviewEvent:      {},
}

// All trend directions supported.
const (
	IncreasingTrend       Trend = "increasing"
	DecreasingTrend       Trend = "decreasing"
	StableTrend           Trend = "stable"
	InsufficientDataTrend Trend = "insufficient_data"
)

// All domain categories supported.
const (
	CompanyDomain  DomainCategory = "company"
	AcademicDomain DomainCategory = "academic"
	PersonalDomain DomainCategory = "personal"
	UnknownDomain  DomainCategory = "unknown"
)

// AllDomainCategories lists domain categories in display order.
var AllDomainCategories = []DomainCategory{CompanyDomain, AcademicDomain, PersonalDomain, UnknownDomain}

// Rules reported in a DomainClassification.
const (
	RuleCompanyDomain  = "company_domain"
	RuleAcademicSuffix = "academic_suffix"
	RulePersonalDomain = "personal_domain"
	RuleNoMatch        = "no_match"
	RuleNoEmail        = "no_email"
)

// All severity tiers supported.
const (
	LowSeverity      Severity = "low"
	MediumSeverity   Severity = "medium"
	HighSeverity     Severity = "high"
	CriticalSeverity Severity = "critical"
)

// AllSeverities lists severities from least to most severe.
var AllSeverities = []Severity{LowSeverity, MediumSeverity, HighSeverity, CriticalSeverity}

// Risk factors used in the scoring logic.
const (
	FactorConcentration     FactorName = "contributor_concentration"
	FactorTrendDecline      FactorName = "trend_decline"
	FactorResponseLatency   FactorName = "response_latency"
	FactorCloseRate         FactorName = "close_rate"
	FactorNegativeSentiment FactorName = "negative_sentiment"
)

// AllFactors lists every risk factor in documentation order.
var AllFactors = []FactorName{
	FactorConcentration,
	FactorTrendDecline,
	FactorResponseLatency,
	FactorCloseRate,
	FactorNegativeSentiment,
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All batch statuses supported.
const (
	OKStatus    Status = "ok"
	ErrorStatus Status = "error"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All data sources supported.
const (
	GitHubSource SourceKind = "github" // default
	GitSource    SourceKind = "git"
	FileSource   SourceKind = "file"
)

// All sentiment scorers supported.
const (
	LexiconScorer ScorerKind = "lexicon" // default
	OpenAIScorer  ScorerKind = "openai"
	NoScorer      ScorerKind = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceKinds lists all valid data sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	GitHubSource: {},
	GitSource:    {},
	FileSource:   {},
}

// ValidScorerKinds lists all valid sentiment scorers.
var ValidScorerKinds = map[ScorerKind]struct{}{
	LexiconScorer: {},
	OpenAIScorer:  {},
	NoScorer:      {},
}

// GetDefaultWeights returns the default weight of every risk factor.
//
//	contributor_concentration 0.30
//	trend_decline             0.20
//	response_latency          0.20
//	close_rate                0.30
//	negative_sentiment        0.10 (only applied when sentiment is computed)
func GetDefaultWeights() map[FactorName]float64 {
	return map[FactorName]float64{
		FactorConcentration:     0.30,
		FactorTrendDecline:      0.20,
		FactorResponseLatency:   0.20,
		FactorCloseRate:         0.30,
		FactorNegativeSentiment: 0.10,
	}
}

// SeverityThresholds are the exclusive upper bounds of the low, medium and
// high tiers. Anything at or above High is critical.
type SeverityThresholds struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// GetDefaultThresholds returns the default severity cutoffs (<25 low, <50 medium, <75 high).
func GetDefaultThresholds() SeverityThresholds {
	return SeverityThresholds{Low: 25, Medium: 50, High: 75}
}
