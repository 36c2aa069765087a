package analytics

import (
	"context"
	"time"

	"datachat/internal/dhis"

	"github.com/rs/zerolog/log"
)

// Request is one complete analysis selection.
type Request struct {
	// Items accepts the heterogeneous selection shapes handled by
	// NormalizeItems: bare id strings, {id} objects or {value} objects.
	Items []any `json:"items"`

	Period  PeriodToken      `json:"period"`
	OrgUnit OrgUnitSelection `json:"orgUnit"`

	// Now overrides the clock for period resolution. Zero means time.Now.
	Now time.Time `json:"-"`
}

// Result is the full set of projections for one analysis. NoData marks the
// valid zero-row state; its projections are empty but present.
type Result struct {
	NoData       bool                `json:"noData"`
	MultiOrgUnit bool                `json:"multiOrgUnit"`
	Query        dhis.AnalyticsQuery `json:"query"`
	Records      []Observation       `json:"records"`
	Summary      Summary             `json:"summary"`
	Chart        Chart               `json:"chart"`
	Table        Table               `json:"table"`
	Excerpt      string              `json:"excerpt"`
}

// Pipeline runs the full selection-to-projection transformation. It holds
// no per-call state; one Pipeline serves concurrent analyses.
type Pipeline struct {
	client dhis.Client
}

func NewPipeline(client dhis.Client) *Pipeline {
	return &Pipeline{client: client}
}

// Run resolves the selection, fetches the analytics response and builds all
// projections. Fatal input and response errors propagate to the caller; no
// retries happen here.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	items, err := NormalizeItems(req.Items)
	if err != nil {
		return nil, err
	}
	itemNames := ItemNames(req.Items)

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	periods, err := ResolvePeriods(req.Period, now)
	if err != nil {
		return nil, err
	}

	orgUnit, err := ResolveOrgUnit(ctx, req.OrgUnit, p.client)
	if err != nil {
		return nil, err
	}

	query := BuildQuery(items, periods, orgUnit.Dimension)
	log.Debug().
		Strs("dx", query.DX).
		Strs("pe", query.PE).
		Str("ou", query.OU).
		Bool("multiOrgUnit", orgUnit.MultiOrgUnit).
		Msg("Running analytics query")

	resp, err := p.client.Analytics(ctx, query)
	if err != nil {
		return nil, err
	}

	records, err := NormalizeResponse(resp, itemNames)
	if err != nil {
		return nil, err
	}

	result := &Result{
		MultiOrgUnit: orgUnit.MultiOrgUnit,
		Query:        query,
		Records:      records,
	}

	if len(records) == 0 {
		log.Info().Msg("Analytics query returned no rows")
		result.NoData = true
		result.Excerpt = BuildExcerpt(Summary{}, orgUnit.MultiOrgUnit)
		return result, nil
	}

	result.Summary = Summarize(records, orgUnit.MultiOrgUnit)
	result.Chart = BuildChart(records, orgUnit.MultiOrgUnit)
	result.Table = BuildTable(records, TableOptions{RollingWindow: req.Period == Last12Months})
	result.Excerpt = BuildExcerpt(result.Summary, orgUnit.MultiOrgUnit)

	return result, nil
}
