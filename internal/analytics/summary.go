package analytics

import "slices"

// Summarize computes the per-item, per-period and (in comparative mode)
// per-org-unit aggregates plus the chronological time series per item.
// Statistics cover non-missing values only; grouping order follows first
// appearance in the record sequence.
func Summarize(records []Observation, multiOrgUnit bool) Summary {
	summary := Summary{}

	type group struct {
		values []float64
		first  Observation
	}

	itemOrder := []string{}
	items := map[string]*group{}

	type pairKey struct{ a, b string }
	periodOrder := []pairKey{}
	periods := map[pairKey]*group{}
	orgUnitOrder := []pairKey{}
	orgUnits := map[pairKey]*group{}

	// Raw per-(item, period) values backing the time series; collapses the
	// residual org-unit dimension by averaging.
	seriesValues := map[pairKey][]float64{}
	seriesSeen := map[pairKey]bool{}
	seriesPeriods := map[string][]string{}
	seriesPeriodNames := map[string]string{}

	add := func(order *[]pairKey, groups map[pairKey]*group, key pairKey, rec Observation) {
		g, ok := groups[key]
		if !ok {
			g = &group{first: rec}
			groups[key] = g
			*order = append(*order, key)
		}
		if !rec.Missing {
			g.values = append(g.values, rec.Value)
		}
	}

	for _, rec := range records {
		if _, ok := items[rec.ItemID]; !ok {
			items[rec.ItemID] = &group{first: rec}
			itemOrder = append(itemOrder, rec.ItemID)
		}
		if !rec.Missing {
			items[rec.ItemID].values = append(items[rec.ItemID].values, rec.Value)
		}

		add(&periodOrder, periods, pairKey{rec.PeriodID, rec.ItemID}, rec)
		if multiOrgUnit {
			add(&orgUnitOrder, orgUnits, pairKey{rec.OrgUnitID, rec.ItemID}, rec)
		}

		sk := pairKey{rec.ItemID, rec.PeriodID}
		if !seriesSeen[sk] {
			seriesSeen[sk] = true
			seriesPeriods[rec.ItemID] = append(seriesPeriods[rec.ItemID], rec.PeriodID)
		}
		seriesPeriodNames[rec.PeriodID] = rec.PeriodName
		if !rec.Missing {
			seriesValues[sk] = append(seriesValues[sk], rec.Value)
		}
	}

	for _, id := range itemOrder {
		g := items[id]

		periodIDs := seriesPeriods[id]
		slices.SortStableFunc(periodIDs, ComparePeriods)
		series := make([]SeriesPoint, 0, len(periodIDs))
		for _, pe := range periodIDs {
			values := seriesValues[pairKey{id, pe}]
			point := SeriesPoint{PeriodID: pe, PeriodName: seriesPeriodNames[pe]}
			if len(values) > 0 {
				point.Value = ComputeStats(values).Mean
			}
			series = append(series, point)
		}

		summary.Items = append(summary.Items, ItemSummary{
			ItemID:   id,
			ItemName: g.first.ItemName,
			Stats:    ComputeStats(g.values),
			Series:   series,
		})
	}

	for _, key := range periodOrder {
		g := periods[key]
		summary.Periods = append(summary.Periods, PeriodSummary{
			PeriodID:   key.a,
			PeriodName: g.first.PeriodName,
			ItemID:     key.b,
			ItemName:   g.first.ItemName,
			Stats:      ComputeStats(g.values),
		})
	}

	for _, key := range orgUnitOrder {
		g := orgUnits[key]
		summary.OrgUnits = append(summary.OrgUnits, OrgUnitSummary{
			OrgUnitID:   key.a,
			OrgUnitName: g.first.OrgUnitName,
			ItemID:      key.b,
			ItemName:    g.first.ItemName,
			Stats:       ComputeStats(g.values),
		})
	}

	return summary
}
