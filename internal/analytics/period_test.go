package analytics

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestResolvePeriods_PointTokens(t *testing.T) {
	tests := []struct {
		name  string
		token PeriodToken
		now   time.Time
		want  []string
	}{
		{"ThisMonth", ThisMonth, date(2024, time.March, 15), []string{"202403"}},
		{"LastMonth", LastMonth, date(2024, time.March, 31), []string{"202402"}},
		{"LastMonthJanuaryRollover", LastMonth, date(2025, time.January, 5), []string{"202412"}},
		{"ThisQuarter", ThisQuarter, date(2024, time.May, 1), []string{"2024Q2"}},
		{"LastQuarter", LastQuarter, date(2024, time.May, 1), []string{"2024Q1"}},
		{"LastQuarterQ1Rollover", LastQuarter, date(2025, time.February, 10), []string{"2024Q4"}},
		{"ThisYear", ThisYear, date(2024, time.June, 1), []string{"2024"}},
		{"LastYear", LastYear, date(2024, time.June, 1), []string{"2023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePeriods(tt.token, tt.now)
			if err != nil {
				t.Fatalf("ResolvePeriods() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolvePeriods() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePeriods_Last12Months(t *testing.T) {
	got, err := ResolvePeriods(Last12Months, date(2025, time.February, 20))
	if err != nil {
		t.Fatalf("ResolvePeriods() error = %v", err)
	}

	want := []string{
		"202403", "202404", "202405", "202406", "202407", "202408",
		"202409", "202410", "202411", "202412", "202501", "202502",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolvePeriods(Last12Months) = %v, want %v", got, want)
	}
}

func TestResolvePeriods_Last12Months_EndOfMonth(t *testing.T) {
	// Jan 31 must not normalize into skipped months.
	got, err := ResolvePeriods(Last12Months, date(2025, time.January, 31))
	if err != nil {
		t.Fatalf("ResolvePeriods() error = %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("expected 12 periods, got %d", len(got))
	}
	if got[0] != "202402" || got[11] != "202501" {
		t.Errorf("window = [%s .. %s], want [202402 .. 202501]", got[0], got[11])
	}
	seen := map[string]bool{}
	for _, p := range got {
		if seen[p] {
			t.Errorf("duplicate period %s", p)
		}
		seen[p] = true
	}
}

func TestResolvePeriods_UnknownTokenPassthrough(t *testing.T) {
	got, err := ResolvePeriods("2023Q3", date(2025, time.January, 1))
	if err != nil {
		t.Fatalf("ResolvePeriods() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"2023Q3"}) {
		t.Errorf("ResolvePeriods() = %v, want literal passthrough", got)
	}
}

func TestResolvePeriods_EmptyToken(t *testing.T) {
	_, err := ResolvePeriods("", date(2025, time.January, 1))
	var selErr *InvalidSelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
	if selErr.Dimension != "pe" {
		t.Errorf("Dimension = %q, want pe", selErr.Dimension)
	}
}

func TestComparePeriods(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"MonthsSameYear", "202401", "202402", -1},
		{"MonthsAcrossYearBoundary", "202412", "202501", -1},
		{"MonthsEqual", "202405", "202405", 0},
		{"Quarters", "2024Q1", "2024Q4", -1},
		{"QuartersAcrossYears", "2024Q4", "2025Q1", -1},
		{"Years", "2023", "2024", -1},
		{"ISODates", "2024-01-31", "2024-02-01", -1},
		{"MixedYearBeforeItsOwnMarch", "2024", "202403", -1},
		{"MixedQuarterVsMonth", "2024Q2", "202403", 1},
		{"UnrecognizedSortsLast", "whatever", "202401", 1},
		{"UnrecognizedPair", "abc", "abd", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePeriods(tt.a, tt.b); got != tt.want {
				t.Errorf("ComparePeriods(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := ComparePeriods(tt.b, tt.a); got != -tt.want {
				t.Errorf("ComparePeriods(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestFormatPeriodName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"202401", "Jan 2024"},
		{"202412", "Dec 2024"},
		{"2024Q3", "Q3 2024"},
		{"2024", "2024"},
		{"2024-02-29", "29 Feb 2024"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		if got := FormatPeriodName(tt.id); got != tt.want {
			t.Errorf("FormatPeriodName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
