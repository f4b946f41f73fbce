package schema

// MetricsFactor describes one risk factor for display purposes.
type MetricsFactor struct {
	Name    FactorName `json:"name"`
	Purpose string     `json:"purpose"`
	Weight  float64    `json:"weight"`
	Formula string     `json:"formula"`
}

// MetricsRenderModel contains all processed data needed for displaying metrics definitions.
type MetricsRenderModel struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Factors     []MetricsFactor    `json:"factors"`
	Overall     string             `json:"overall"`
	Thresholds  SeverityThresholds `json:"thresholds"`
	Trend       string             `json:"trend"`
}
