package analytics

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// BuildChart produces the chart-ready projection: labels are the distinct
// periods present in the records, chronologically ordered, and every dataset
// has exactly one value per label. Single-unit mode yields one dataset per
// item; comparative mode yields one dataset per org unit with values summed
// across items. Gaps are filled with 0 so all datasets share the label axis.
func BuildChart(records []Observation, multiOrgUnit bool) Chart {
	periodIDs := []string{}
	periodNames := map[string]string{}
	for _, rec := range records {
		if _, ok := periodNames[rec.PeriodID]; !ok {
			periodIDs = append(periodIDs, rec.PeriodID)
		}
		periodNames[rec.PeriodID] = rec.PeriodName
	}
	slices.SortStableFunc(periodIDs, ComparePeriods)

	periodIndex := make(map[string]int, len(periodIDs))
	labels := make([]string, len(periodIDs))
	for i, pe := range periodIDs {
		periodIndex[pe] = i
		labels[i] = periodNames[pe]
	}

	seriesKey := func(rec Observation) (string, string) {
		if multiOrgUnit {
			return rec.OrgUnitID, rec.OrgUnitName
		}
		return rec.ItemID, rec.ItemName
	}

	keyOrder := []string{}
	values := map[string][]float64{}
	names := map[string]string{}
	for _, rec := range records {
		key, name := seriesKey(rec)
		if _, ok := values[key]; !ok {
			keyOrder = append(keyOrder, key)
			values[key] = make([]float64, len(periodIDs))
			names[key] = name
		}
		if !rec.Missing {
			values[key][periodIndex[rec.PeriodID]] += rec.Value
		}
	}

	chart := Chart{Labels: labels}
	for _, key := range keyOrder {
		chart.Datasets = append(chart.Datasets, Dataset{
			Label:  names[key],
			Values: values[key],
		})
	}
	return chart
}

// TableOptions controls the table projection's row ordering.
type TableOptions struct {
	// RollingWindow marks a rolling-12-months selection; its default sort
	// is chronological ascending instead of row arrival order.
	RollingWindow bool

	// SortColumn is an explicit column sort overriding the default:
	// "item", "period", "orgUnit" or "value". Empty keeps the default.
	SortColumn string
	Descending bool
}

// TableColumns is the fixed column layout of the table projection.
var TableColumns = []string{"Data item", "Period", "Organisation unit", "Value"}

// BuildTable produces the sortable flat projection: one row per observation
// with display names and the formatted value ("-" for missing rows).
func BuildTable(records []Observation, opts TableOptions) Table {
	ordered := make([]Observation, len(records))
	copy(ordered, records)

	switch {
	case opts.SortColumn != "":
		sortRecords(ordered, opts.SortColumn, opts.Descending)
	case opts.RollingWindow:
		slices.SortStableFunc(ordered, func(a, b Observation) int {
			return ComparePeriods(a.PeriodID, b.PeriodID)
		})
	}

	table := Table{Columns: TableColumns}
	for _, rec := range ordered {
		value := "-"
		if !rec.Missing {
			value = strconv.FormatFloat(rec.Value, 'f', -1, 64)
		}
		table.Rows = append(table.Rows, []string{rec.ItemName, rec.PeriodName, rec.OrgUnitName, value})
	}
	return table
}

func sortRecords(records []Observation, column string, descending bool) {
	compare := func(a, b Observation) int {
		switch column {
		case "period":
			// Period sorting goes through the shared chronological
			// comparator, never through the display name.
			return ComparePeriods(a.PeriodID, b.PeriodID)
		case "value":
			return compareValues(a, b)
		case "orgUnit":
			return compareFold(a.OrgUnitName, b.OrgUnitName)
		default:
			return compareFold(a.ItemName, b.ItemName)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]

		// Missing values sink to the bottom of a value sort in either
		// direction; only the numeric comparison is flipped.
		if column == "value" && a.Missing != b.Missing {
			return !a.Missing
		}

		c := compare(a, b)
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func compareValues(a, b Observation) int {
	switch {
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
