package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// UnknownYear is the sentinel used when a statement's period cannot be read.
const UnknownYear = 1900

var yearToken = regexp.MustCompile(`\b\d{4}\b`)

// YearRange is the span of calendar years a statement covers.
type YearRange struct {
	Min int
	Max int
}

// UnknownYearRange signals that no year was found in the metadata region.
func UnknownYearRange() YearRange {
	return YearRange{Min: UnknownYear, Max: UnknownYear}
}

// YearRangeFromText collects every four-digit token in text and returns their span.
func YearRangeFromText(text string) YearRange {
	tokens := yearToken.FindAllString(text, -1)
	if len(tokens) == 0 {
		return UnknownYearRange()
	}
	yr := YearRange{}
	for i, tok := range tokens {
		y, _ := strconv.Atoi(tok)
		if i == 0 || y < yr.Min {
			yr.Min = y
		}
		if i == 0 || y > yr.Max {
			yr.Max = y
		}
	}
	return yr
}

// YearFor picks the year a year-less date in month belongs to.
func (yr YearRange) YearFor(month time.Month) int {
	if month == time.January && yr.Min != yr.Max {
		return yr.Max
	}
	return yr.Min
}

// IsUnknown reports whether the range is the sentinel.
func (yr YearRange) IsUnknown() bool {
	return yr.Min == UnknownYear && yr.Max == UnknownYear
}

func (yr YearRange) String() string {
	return fmt.Sprintf("%d-%d", yr.Min, yr.Max)
}
