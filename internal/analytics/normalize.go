package analytics

import (
	"fmt"
	"math"
	"strconv"

	"datachat/internal/dhis"

	"github.com/rs/zerolog/log"
)

// NormalizeResponse turns a raw column-indexed analytics response into an
// ordered sequence of typed observation records with resolved display names.
//
// itemNames is the side map harvested from the original selection metadata
// (see ItemNames); it backs up the response dictionary for dx lookups.
// Rows with a non-numeric value column are kept with Missing set. Zero rows
// is a valid result, not an error.
func NormalizeResponse(resp *dhis.AnalyticsResponse, itemNames map[string]string) ([]Observation, error) {
	columns := make(map[string]int, len(resp.Headers))
	for i, h := range resp.Headers {
		columns[h.Name] = i
	}

	for _, required := range []string{"dx", "pe", "ou", "value"} {
		if _, ok := columns[required]; !ok {
			return nil, &MalformedResponseError{Column: required}
		}
	}

	dxCol := columns["dx"]
	peCol := columns["pe"]
	ouCol := columns["ou"]
	valueCol := columns["value"]

	records := make([]Observation, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row) <= dxCol || len(row) <= peCol || len(row) <= ouCol || len(row) <= valueCol {
			continue
		}

		rec := Observation{
			ItemID:    cellString(row[dxCol]),
			PeriodID:  cellString(row[peCol]),
			OrgUnitID: cellString(row[ouCol]),
		}
		rec.ItemName = resolveItemName(rec.ItemID, resp.MetaData.Items, itemNames)
		rec.PeriodName = resolvePeriodName(rec.PeriodID, resp.MetaData.Items)
		rec.OrgUnitName = resolveOrgUnitName(rec.OrgUnitID, resp.MetaData.Items)

		value, ok := cellNumber(row[valueCol])
		if ok {
			rec.Value = value
		} else {
			rec.Missing = true
		}

		records = append(records, rec)
	}

	return records, nil
}

func resolveItemName(id string, items map[string]dhis.MetaItem, fallback map[string]string) string {
	if item, ok := items[id]; ok && item.Name != "" {
		return item.Name
	}
	if name, ok := fallback[id]; ok && name != "" {
		return name
	}
	log.Warn().Str("id", id).Msg("Data item id not in metadata dictionary, using raw id")
	return id
}

func resolvePeriodName(id string, items map[string]dhis.MetaItem) string {
	if item, ok := items[id]; ok && item.Name != "" {
		return item.Name
	}
	return FormatPeriodName(id)
}

func resolveOrgUnitName(id string, items map[string]dhis.MetaItem) string {
	if item, ok := items[id]; ok && item.Name != "" {
		return item.Name
	}
	log.Warn().Str("id", id).Msg("Org unit id not in metadata dictionary, using raw id")
	return id
}

// cellString renders one row cell as a string. Response tuples are
// heterogeneous, so numbers can appear where ids are expected.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func cellNumber(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
