// Package dateutils resolves the date notations found on Mexican bank statements.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutShortYear = "2/1/06"
)

// DateMode selects how a profile's date cells are written.
type DateMode int

const (
	// DayMonthInferred is "DD/MON" or "DD MON" with the year taken from the document's YearRange.
	DayMonthInferred DateMode = iota
	// DayMonthYear is "DD-MON-YYYY".
	DayMonthYear
	// NumericShortYear is "DD/MM/YY".
	NumericShortYear
)

func (m DateMode) String() string {
	switch m {
	case DayMonthInferred:
		return "DD/MON (year inferred)"
	case DayMonthYear:
		return "DD-MON-YYYY"
	case NumericShortYear:
		return "DD/MM/YY"
	default:
		return fmt.Sprintf("DateMode(%d)", int(m))
	}
}

var spanishMonths = map[string]time.Month{
	"ENE": time.January,
	"FEB": time.February,
	"MAR": time.March,
	"ABR": time.April,
	"MAY": time.May,
	"JUN": time.June,
	"JUL": time.July,
	"AGO": time.August,
	"SEP": time.September,
	"OCT": time.October,
	"NOV": time.November,
	"DIC": time.December,
}

var (
	dayMonthPattern     = regexp.MustCompile(`^(\d{1,2})[ /\-]+([A-Z]{3})$`)
	dayMonthYearPattern = regexp.MustCompile(`^(\d{1,2})-([A-Z]{3})-(\d{4})$`)
	whitespace          = regexp.MustCompile(`\s+`)
)

// SpanishMonth maps a three-letter Spanish abbreviation (ENE..DIC) to its month.
func SpanishMonth(abbr string) (time.Month, bool) {
	m, ok := spanishMonths[strings.ToUpper(strings.TrimSpace(abbr))]
	return m, ok
}

// CleanDateString trims and collapses whitespace and upper-cases the text.
func CleanDateString(dateStr string) string {
	return strings.ToUpper(whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " "))
}

// Resolve parses a raw date cell according to mode. The boolean is false when the
// text is not a valid calendar date under that notation; callers drop such rows.
func Resolve(mode DateMode, raw string, years YearRange) (time.Time, bool) {
	switch mode {
	case DayMonthInferred:
		return ParseDayMonth(raw, years)
	case DayMonthYear:
		return ParseDayMonthYear(raw)
	case NumericShortYear:
		return ParseShortYear(raw)
	default:
		return time.Time{}, false
	}
}

// ParseDayMonth resolves a year-less "DD/MON" date. January takes the later year when the
// statement spans a year boundary; every other month takes the earlier one.
func ParseDayMonth(raw string, years YearRange) (time.Time, bool) {
	m := dayMonthPattern.FindStringSubmatch(CleanDateString(raw))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := spanishMonths[m[2]]
	if !ok {
		return time.Time{}, false
	}
	return buildDate(years.YearFor(month), month, m[1])
}

// ParseDayMonthYear resolves a "DD-MON-YYYY" date.
func ParseDayMonthYear(raw string) (time.Time, bool) {
	m := dayMonthYearPattern.FindStringSubmatch(CleanDateString(raw))
	if m == nil {
		return time.Time{}, false
	}
	month, ok := spanishMonths[m[2]]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}
	return buildDate(year, month, m[1])
}

// ParseShortYear resolves a numeric "DD/MM/YY" date.
func ParseShortYear(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayoutShortYear, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func buildDate(year int, month time.Month, dayStr string) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31/FEB into March; reject instead.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}
