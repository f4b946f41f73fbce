package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/steward/schema"
)

// Default values for configuration.
const (
	DefaultAnalysisDays        = 365
	MinAnalysisDays            = 1
	MaxAnalysisDays            = 365
	DefaultPrecision           = 1
	DefaultTrendBuckets        = 4
	DefaultTrendThreshold      = 0.5
	DefaultTrendMinEvents      = 2
	DefaultPositiveThreshold   = 0.2
	DefaultNegativeThreshold   = -0.2
	DefaultLatencyCeilingHours = 120.0
	DefaultRateLimit           = 5.0 // requests per second
	DefaultGitHubAPIURL        = "https://api.github.com/"
	DefaultOpenAIModel         = "gpt-4o-mini"
	MaxBatchRepositories       = 50
)

// DefaultWorkers is the default number of concurrent repository analyses.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// DomainLists holds the email domain lists used by the classifier.
// Custom domains are treated as company domains.
type DomainLists struct {
	Company  []string
	Academic []string // suffixes such as ".edu"
	Personal []string
	Custom   []string
}

// TrendConfig controls how contributor activity is bucketed and compared.
type TrendConfig struct {
	Buckets   int     // even and >= 2
	Threshold float64 // relative change needed to leave "stable"
	MinEvents int     // below this a contributor has insufficient data
}

// SentimentThresholds are the bucket boundaries for sentiment scores.
type SentimentThresholds struct {
	Positive float64 // scores strictly above are positive
	Negative float64 // scores strictly below are negative
}

// BotConfig controls the automation account filter.
type BotConfig struct {
	Enabled       bool
	Indicators    []string
	EmailPatterns []string
}

// AnalysisConfig is the configuration surface consumed by the analysis pipeline.
// It is built once per run and never mutated afterwards.
type AnalysisConfig struct {
	Domains             DomainLists
	Weights             map[schema.FactorName]float64
	Thresholds          schema.SeverityThresholds
	Trend               TrendConfig
	Sentiment           SentimentThresholds
	SentimentCommits    bool // score commit messages too
	Bots                BotConfig
	LatencyCeilingHours float64
}

// DefaultAnalysisConfig returns the documented defaults.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Domains: DomainLists{
			Company:  slices.Clone(schema.DefaultCompanyDomains),
			Academic: slices.Clone(schema.DefaultAcademicSuffixes),
			Personal: slices.Clone(schema.DefaultPersonalDomains),
		},
		Weights:    schema.GetDefaultWeights(),
		Thresholds: schema.GetDefaultThresholds(),
		Trend: TrendConfig{
			Buckets:   DefaultTrendBuckets,
			Threshold: DefaultTrendThreshold,
			MinEvents: DefaultTrendMinEvents,
		},
		Sentiment: SentimentThresholds{
			Positive: DefaultPositiveThreshold,
			Negative: DefaultNegativeThreshold,
		},
		Bots: BotConfig{
			Enabled:       true,
			Indicators:    slices.Clone(schema.DefaultBotIndicators),
			EmailPatterns: slices.Clone(schema.DefaultBotEmailPatterns),
		},
		LatencyCeilingHours: DefaultLatencyCeilingHours,
	}
}

// Clone returns a deep copy of the AnalysisConfig.
func (a AnalysisConfig) Clone() AnalysisConfig {
	clone := a
	clone.Domains = DomainLists{
		Company:  slices.Clone(a.Domains.Company),
		Academic: slices.Clone(a.Domains.Academic),
		Personal: slices.Clone(a.Domains.Personal),
		Custom:   slices.Clone(a.Domains.Custom),
	}
	clone.Weights = maps.Clone(a.Weights)
	clone.Bots.Indicators = slices.Clone(a.Bots.Indicators)
	clone.Bots.EmailPatterns = slices.Clone(a.Bots.EmailPatterns)
	return clone
}

// Validate checks the invariants the pipeline relies on.
func (a AnalysisConfig) Validate() error {
	for name, w := range a.Weights {
		if w < 0 || w > 1 {
			return NewInputError("weights."+string(name), "must be between 0.0 and 1.0 (received %.3f)", w)
		}
	}
	t := a.Thresholds
	if t.Low <= 0 || t.Low >= t.Medium || t.Medium >= t.High || t.High >= 100 {
		return NewInputError("thresholds", "must be strictly increasing within (0,100) (received %.1f, %.1f, %.1f)", t.Low, t.Medium, t.High)
	}
	if a.Trend.Buckets < 2 || a.Trend.Buckets%2 != 0 {
		return NewInputError("trend.buckets", "must be an even number >= 2 (received %d)", a.Trend.Buckets)
	}
	if a.Trend.Threshold < 0 || a.Trend.Threshold >= 1 {
		return NewInputError("trend.threshold", "must be in [0,1) (received %.3f)", a.Trend.Threshold)
	}
	if a.Trend.MinEvents < 1 {
		return NewInputError("trend.min-events", "must be at least 1 (received %d)", a.Trend.MinEvents)
	}
	s := a.Sentiment
	if s.Negative > s.Positive || s.Negative < -1 || s.Positive > 1 {
		return NewInputError("sentiment-thresholds", "need -1 <= negative <= positive <= 1 (received %.2f, %.2f)", s.Negative, s.Positive)
	}
	if a.LatencyCeilingHours <= 0 {
		return NewInputError("latency-ceiling", "must be positive (received %.1f)", a.LatencyCeilingHours)
	}
	return nil
}

// Config holds the runtime configuration for the CLI and the tool server.
// This struct remains the "final, validated" config.
type Config struct {
	Days             int
	IncludeSentiment bool
	Workers          int
	Precision        int
	Output           schema.OutputMode
	OutputFile       string
	Width            int // Terminal width override (0 = auto-detect)
	UseEmojis        bool
	UseColors        bool

	Source       schema.SourceKind
	SourcePath   string // fixture file for the file source, repository path for the git source
	GitHubAPIURL string
	RateLimit    float64

	Scorer        schema.ScorerKind
	OpenAIModel   string
	OpenAIBaseURL string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	Analysis AnalysisConfig
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Analysis = c.Analysis.Clone()
	return &clone
}

// DomainsRawInput holds domain list overrides from the YAML config file.
// A non-empty list replaces the default; custom domains extend the company set.
type DomainsRawInput struct {
	Company  []string `mapstructure:"company"`
	Academic []string `mapstructure:"academic"`
	Personal []string `mapstructure:"personal"`
	Custom   []string `mapstructure:"custom"`
}

// WeightsRawInput holds custom risk factor weights from the YAML config file.
type WeightsRawInput struct {
	Concentration *float64 `mapstructure:"concentration"`
	Trend         *float64 `mapstructure:"trend"`
	Latency       *float64 `mapstructure:"latency"`
	CloseRate     *float64 `mapstructure:"close-rate"`
	Sentiment     *float64 `mapstructure:"sentiment"`
}

// ThresholdsRawInput holds severity threshold overrides from the YAML config file.
type ThresholdsRawInput struct {
	Low    *float64 `mapstructure:"low"`
	Medium *float64 `mapstructure:"medium"`
	High   *float64 `mapstructure:"high"`
}

// TrendRawInput holds trend overrides from the YAML config file.
type TrendRawInput struct {
	Buckets   *int     `mapstructure:"buckets"`
	Threshold *float64 `mapstructure:"threshold"`
	MinEvents *int     `mapstructure:"min-events"`
}

// SentimentThresholdsRawInput holds sentiment bucket overrides from the YAML config file.
type SentimentThresholdsRawInput struct {
	Positive *float64 `mapstructure:"positive"`
	Negative *float64 `mapstructure:"negative"`
}

// BotsRawInput holds bot filter overrides from the YAML config file.
type BotsRawInput struct {
	Enabled       *bool    `mapstructure:"enabled"`
	Indicators    []string `mapstructure:"indicators"`
	EmailPatterns []string `mapstructure:"email-patterns"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Days           int     `mapstructure:"days"`
	Sentiment      bool    `mapstructure:"sentiment"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Emoji          string  `mapstructure:"emoji"`
	Color          string  `mapstructure:"color"`
	Source         string  `mapstructure:"source"`
	SourcePath     string  `mapstructure:"source-path"`
	GitHubAPIURL   string  `mapstructure:"github-api-url"`
	RateLimit      float64 `mapstructure:"rate-limit"`
	Scorer         string  `mapstructure:"scorer"`
	OpenAIModel    string  `mapstructure:"openai-model"`
	OpenAIBaseURL  string  `mapstructure:"openai-base-url"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	LogLevel       string  `mapstructure:"log-level"`
	LogFormat      string  `mapstructure:"log-format"`

	// --- Analysis tuning from config file ---
	Domains             DomainsRawInput             `mapstructure:"domains"`
	Weights             WeightsRawInput             `mapstructure:"weights"`
	Thresholds          ThresholdsRawInput          `mapstructure:"thresholds"`
	Trend               TrendRawInput               `mapstructure:"trend"`
	SentimentThresholds SentimentThresholdsRawInput `mapstructure:"sentiment-thresholds"`
	SentimentCommits    bool                        `mapstructure:"sentiment-commits"`
	Bots                BotsRawInput                `mapstructure:"bots"`
	LatencyCeiling      *float64                    `mapstructure:"latency-ceiling"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(ctx, cfg, client, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	analysis, err := ProcessAnalysisRawInput(input)
	if err != nil {
		return err
	}
	cfg.Analysis = analysis
	return nil
}

// ValidateDays checks that an analysis window length is within [1,365].
func ValidateDays(days int) error {
	if days < MinAnalysisDays || days > MaxAnalysisDays {
		return NewInputError("analysis_days", "must be between %d and %d (received %d)", MinAnalysisDays, MaxAnalysisDays, days)
	}
	return nil
}

// ValidateRepositoryID checks that a repository identifier has the owner/name shape.
func ValidateRepositoryID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewInputError("repository", "identifier is empty")
	}
	if !schema.IsValidRepositoryID(id) {
		return NewInputError("repository", "%q is not of the form owner/name", id)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and run fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.IncludeSentiment = input.Sentiment
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	cfg.LogFormat = strings.ToLower(input.LogFormat)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if err := ValidateDays(input.Days); err != nil {
		return err
	}
	cfg.Days = input.Days

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Scorer = schema.ScorerKind(strings.ToLower(input.Scorer))
	if _, ok := schema.ValidScorerKinds[cfg.Scorer]; !ok {
		return fmt.Errorf("invalid scorer '%s'. must be lexicon, openai, none", input.Scorer)
	}
	cfg.OpenAIModel = input.OpenAIModel
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = DefaultOpenAIModel
	}
	cfg.OpenAIBaseURL = input.OpenAIBaseURL
	return nil
}

// validateSourceConfig resolves the data source and its location.
func validateSourceConfig(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be github, git, file", input.Source)
	}
	cfg.GitHubAPIURL = input.GitHubAPIURL
	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = DefaultGitHubAPIURL
	}
	if !strings.HasSuffix(cfg.GitHubAPIURL, "/") {
		cfg.GitHubAPIURL += "/"
	}
	cfg.RateLimit = input.RateLimit
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	switch cfg.Source {
	case schema.FileSource:
		if input.SourcePath == "" {
			return fmt.Errorf("--source-path is required when using the file source")
		}
		abs, err := filepath.Abs(input.SourcePath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("cannot read source file: %w", err)
		}
		cfg.SourcePath = abs
	case schema.GitSource:
		searchPath := input.SourcePath
		if searchPath == "" {
			searchPath = "."
		}
		abs, err := filepath.Abs(searchPath)
		if err != nil {
			return err
		}
		root, err := client.GetRepoRoot(ctx, filepath.Clean(abs))
		if err != nil {
			return err
		}
		cfg.SourcePath = root
	default:
		cfg.SourcePath = input.SourcePath
	}
	return nil
}

// validateBackendConfigs validates the analysis store configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ProcessWeightsRawInput overlays custom weights on the defaults.
func ProcessWeightsRawInput(weights WeightsRawInput) map[schema.FactorName]float64 {
	result := schema.GetDefaultWeights()
	overrides := map[schema.FactorName]*float64{
		schema.FactorConcentration:     weights.Concentration,
		schema.FactorTrendDecline:      weights.Trend,
		schema.FactorResponseLatency:   weights.Latency,
		schema.FactorCloseRate:         weights.CloseRate,
		schema.FactorNegativeSentiment: weights.Sentiment,
	}
	for name, w := range overrides {
		if w != nil {
			result[name] = *w
		}
	}
	return result
}

// ProcessAnalysisRawInput builds a validated AnalysisConfig from defaults plus overrides.
func ProcessAnalysisRawInput(input *ConfigRawInput) (AnalysisConfig, error) {
	a := DefaultAnalysisConfig()

	if len(input.Domains.Company) > 0 {
		a.Domains.Company = normalizeList(input.Domains.Company)
	}
	if len(input.Domains.Academic) > 0 {
		a.Domains.Academic = normalizeList(input.Domains.Academic)
	}
	if len(input.Domains.Personal) > 0 {
		a.Domains.Personal = normalizeList(input.Domains.Personal)
	}
	a.Domains.Custom = normalizeList(input.Domains.Custom)

	a.Weights = ProcessWeightsRawInput(input.Weights)

	if input.Thresholds.Low != nil {
		a.Thresholds.Low = *input.Thresholds.Low
	}
	if input.Thresholds.Medium != nil {
		a.Thresholds.Medium = *input.Thresholds.Medium
	}
	if input.Thresholds.High != nil {
		a.Thresholds.High = *input.Thresholds.High
	}

	if input.Trend.Buckets != nil {
		a.Trend.Buckets = *input.Trend.Buckets
	}
	if input.Trend.Threshold != nil {
		a.Trend.Threshold = *input.Trend.Threshold
	}
	if input.Trend.MinEvents != nil {
		a.Trend.MinEvents = *input.Trend.MinEvents
	}

	if input.SentimentThresholds.Positive != nil {
		a.Sentiment.Positive = *input.SentimentThresholds.Positive
	}
	if input.SentimentThresholds.Negative != nil {
		a.Sentiment.Negative = *input.SentimentThresholds.Negative
	}
	a.SentimentCommits = input.SentimentCommits

	if input.Bots.Enabled != nil {
		a.Bots.Enabled = *input.Bots.Enabled
	}
	if len(input.Bots.Indicators) > 0 {
		a.Bots.Indicators = normalizeList(input.Bots.Indicators)
	}
	if len(input.Bots.EmailPatterns) > 0 {
		a.Bots.EmailPatterns = normalizeList(input.Bots.EmailPatterns)
	}

	if input.LatencyCeiling != nil {
		a.LatencyCeilingHours = *input.LatencyCeiling
	}

	if err := a.Validate(); err != nil {
		return AnalysisConfig{}, err
	}
	return a, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// normalizeList lowercases, trims and drops empty entries.
func normalizeList(items []string) []string {
	var out []string
	for _, item := range items {
		if v := strings.ToLower(strings.TrimSpace(item)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
