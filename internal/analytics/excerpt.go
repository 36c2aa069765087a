package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// BuildExcerpt renders the summary as a plain-text data excerpt for the chat
// collaborator to embed. It states per-item statistics, the highest and
// lowest period per item, and in comparative mode a ranking of org units.
// No markup; the consumer owns presentation.
func BuildExcerpt(summary Summary, multiOrgUnit bool) string {
	if len(summary.Items) == 0 {
		return "No data available for this selection."
	}

	var b strings.Builder
	for _, item := range summary.Items {
		fmt.Fprintf(&b, "%s: %d values, sum %s, mean %s, median %s, range %s to %s.\n",
			item.ItemName,
			item.Stats.Count,
			formatNumber(item.Stats.Sum),
			formatNumber(item.Stats.Mean),
			formatNumber(item.Stats.Median),
			formatNumber(item.Stats.Min),
			formatNumber(item.Stats.Max),
		)

		if high, low, ok := extremePeriods(summary.Periods, item.ItemID); ok {
			fmt.Fprintf(&b, "  Highest in %s (%s), lowest in %s (%s).\n",
				high.PeriodName, formatNumber(high.Stats.Sum),
				low.PeriodName, formatNumber(low.Stats.Sum),
			)
		}

		if len(item.Series) > 1 {
			points := make([]string, len(item.Series))
			for i, p := range item.Series {
				points[i] = fmt.Sprintf("%s %s", p.PeriodName, formatNumber(p.Value))
			}
			fmt.Fprintf(&b, "  Series: %s.\n", strings.Join(points, ", "))
		}
	}

	if multiOrgUnit && len(summary.OrgUnits) > 0 {
		b.WriteString(orgUnitRanking(summary.OrgUnits))
	}

	return b.String()
}

func extremePeriods(periods []PeriodSummary, itemID string) (high, low PeriodSummary, ok bool) {
	for _, p := range periods {
		if p.ItemID != itemID || p.Stats.Count == 0 {
			continue
		}
		if !ok {
			high, low, ok = p, p, true
			continue
		}
		if p.Stats.Sum > high.Stats.Sum {
			high = p
		}
		if p.Stats.Sum < low.Stats.Sum {
			low = p
		}
	}
	return high, low, ok
}

func orgUnitRanking(orgUnits []OrgUnitSummary) string {
	// Collapse the item dimension: rank units by their total across items.
	totals := map[string]float64{}
	names := map[string]string{}
	order := []string{}
	for _, ou := range orgUnits {
		if _, ok := totals[ou.OrgUnitID]; !ok {
			order = append(order, ou.OrgUnitID)
			names[ou.OrgUnitID] = ou.OrgUnitName
		}
		totals[ou.OrgUnitID] += ou.Stats.Sum
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})

	var b strings.Builder
	b.WriteString("Organisation units ranked by total:\n")
	for i, id := range order {
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, names[id], formatNumber(totals[id]))
	}
	return b.String()
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
