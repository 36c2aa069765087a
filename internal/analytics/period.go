package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PeriodToken is a relative period selection, resolved against "now" at call
// time. The zero value is invalid.
type PeriodToken string

const (
	ThisMonth    PeriodToken = "THIS_MONTH"
	LastMonth    PeriodToken = "LAST_MONTH"
	ThisQuarter  PeriodToken = "THIS_QUARTER"
	LastQuarter  PeriodToken = "LAST_QUARTER"
	ThisYear     PeriodToken = "THIS_YEAR"
	LastYear     PeriodToken = "LAST_YEAR"
	Last12Months PeriodToken = "LAST_12_MONTHS"
)

// PeriodTokens lists the supported relative tokens.
func PeriodTokens() []PeriodToken {
	return []PeriodToken{
		ThisMonth, LastMonth,
		ThisQuarter, LastQuarter,
		ThisYear, LastYear,
		Last12Months,
	}
}

// ResolvePeriods maps a relative period token to concrete analytics period
// identifiers. Point tokens resolve to a single identifier in the encoding
// implied by their granularity (YYYYMM, YYYYQN or YYYY); LAST_12_MONTHS
// resolves to 12 YYYYMM identifiers, oldest first, ending at the current
// month inclusive.
//
// An unknown non-empty token is passed through verbatim as a literal period
// identifier. This keeps the resolver forward-compatible with period
// encodings the enumeration does not cover; the pass-through is logged.
func ResolvePeriods(token PeriodToken, now time.Time) ([]string, error) {
	// Anchor at the first of the month so AddDate arithmetic never
	// normalizes across month ends (e.g. Mar 31 minus one month).
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch token {
	case ThisMonth:
		return []string{anchor.Format("200601")}, nil
	case LastMonth:
		return []string{anchor.AddDate(0, -1, 0).Format("200601")}, nil
	case ThisQuarter:
		return []string{quarterID(anchor)}, nil
	case LastQuarter:
		return []string{quarterID(anchor.AddDate(0, -3, 0))}, nil
	case ThisYear:
		return []string{strconv.Itoa(anchor.Year())}, nil
	case LastYear:
		return []string{strconv.Itoa(anchor.Year() - 1)}, nil
	case Last12Months:
		periods := make([]string, 0, 12)
		for i := 11; i >= 0; i-- {
			periods = append(periods, anchor.AddDate(0, -i, 0).Format("200601"))
		}
		return periods, nil
	case "":
		return nil, &InvalidSelectionError{Dimension: "pe", Detail: "empty period token"}
	default:
		log.Warn().Str("token", string(token)).Msg("Unknown period token, passing through as literal period")
		return []string{string(token)}, nil
	}
}

func quarterID(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}

// ComparePeriods is the single chronological comparator for concrete period
// identifiers across all supported encodings: YYYYMM, YYYYQN, YYYY and ISO
// dates. Every projection sorts periods through this function. Identifiers
// that fit no encoding sort after recognized ones, by plain string compare
// among themselves.
func ComparePeriods(a, b string) int {
	sa, oka := periodStart(a)
	sb, okb := periodStart(b)

	switch {
	case oka && okb:
		if sa.Before(sb) {
			return -1
		}
		if sa.After(sb) {
			return 1
		}
		return 0
	case oka:
		return -1
	case okb:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// periodStart maps a concrete period identifier to the instant its period
// begins. The bool reports whether the encoding was recognized.
func periodStart(id string) (time.Time, bool) {
	switch {
	case len(id) == 10 && id[4] == '-' && id[7] == '-':
		t, err := time.Parse("2006-01-02", id)
		return t, err == nil
	case len(id) == 6 && (id[4] == 'Q' || id[4] == 'q'):
		year, err := strconv.Atoi(id[:4])
		if err != nil {
			return time.Time{}, false
		}
		q, err := strconv.Atoi(id[5:])
		if err != nil || q < 1 || q > 4 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC), true
	case len(id) == 6:
		t, err := time.Parse("200601", id)
		return t, err == nil
	case len(id) == 4:
		year, err := strconv.Atoi(id)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

// FormatPeriodName renders a best-effort display name for a concrete period
// identifier, used when the response dictionary has no entry for it.
func FormatPeriodName(id string) string {
	switch {
	case len(id) == 6 && (id[4] == 'Q' || id[4] == 'q'):
		return fmt.Sprintf("Q%s %s", id[5:], id[:4])
	case len(id) == 6:
		if t, err := time.Parse("200601", id); err == nil {
			return t.Format("Jan 2006")
		}
	case len(id) == 10:
		if t, err := time.Parse("2006-01-02", id); err == nil {
			return t.Format("2 Jan 2006")
		}
	}
	return id
}
