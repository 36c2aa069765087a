package analytics

// Observation is one normalized (item, period, org unit, value) fact derived
// from a single analytics response row.
type Observation struct {
	ItemID      string  `json:"itemId"`
	ItemName    string  `json:"itemName"`
	PeriodID    string  `json:"periodId"`
	PeriodName  string  `json:"periodName"`
	OrgUnitID   string  `json:"orgUnitId"`
	OrgUnitName string  `json:"orgUnitName"`
	Value       float64 `json:"value"`

	// Missing marks rows whose value column did not parse as a finite
	// number. They are kept for table rendering but excluded from statistics.
	Missing bool `json:"missing,omitempty"`
}

// Stats holds the summary statistics over a set of numeric values.
type Stats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Sum    float64 `json:"sum"`
}

// SeriesPoint is one chronological point of an item's time series.
type SeriesPoint struct {
	PeriodID   string  `json:"periodId"`
	PeriodName string  `json:"periodName"`
	Value      float64 `json:"value"`
}

// ItemSummary aggregates all observations of one data item.
type ItemSummary struct {
	ItemID   string        `json:"itemId"`
	ItemName string        `json:"itemName"`
	Stats    Stats         `json:"stats"`
	Series   []SeriesPoint `json:"series"`
}

// PeriodSummary aggregates the observations of one (period, item) pair.
type PeriodSummary struct {
	PeriodID   string `json:"periodId"`
	PeriodName string `json:"periodName"`
	ItemID     string `json:"itemId"`
	ItemName   string `json:"itemName"`
	Stats      Stats  `json:"stats"`
}

// OrgUnitSummary aggregates the observations of one (org unit, item) pair.
// Only populated in comparative (multi-org-unit) mode.
type OrgUnitSummary struct {
	OrgUnitID   string `json:"orgUnitId"`
	OrgUnitName string `json:"orgUnitName"`
	ItemID      string `json:"itemId"`
	ItemName    string `json:"itemName"`
	Stats       Stats  `json:"stats"`
}

// Summary is the full statistical digest of a normalized response.
// Slices preserve first-appearance order of their grouping keys.
type Summary struct {
	Items    []ItemSummary    `json:"items"`
	Periods  []PeriodSummary  `json:"periods"`
	OrgUnits []OrgUnitSummary `json:"orgUnits,omitempty"`
}

// Dataset is one chart series sharing the chart's label axis.
type Dataset struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Chart is a chart-ready projection: one label per distinct period
// (chronological) and one dataset per item or per org unit.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Table is a sortable flat projection of the observations.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
