package roster

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form used everywhere in the
// system: shifts carry no time component.
const DateLayout = "2006-01-02"

// serialEpochOffsetDays aligns spreadsheet serial dates (days since
// 1899-12-30, 1900 epoch) with Unix epoch days.
const serialEpochOffsetDays = 25569

var (
	ErrInvalidDateType    = errors.New("invalid date type")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrInvalidMonthAbbrev = errors.New("invalid month abbreviation")
)

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{2})$`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// fallbackLayouts are tried in order for free-form date strings.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Normalize converts heterogeneous date inputs into a calendar date at UTC
// midnight. Numbers are spreadsheet serial dates, strings are tried as ISO,
// D[D]-MMM-YY and finally a set of common layouts. It is the sole
// date-parsing authority for the importer and the repeater.
func Normalize(input any) (time.Time, error) {
	switch v := input.(type) {
	case float64:
		return fromSerial(v), nil
	case int:
		return fromSerial(float64(v)), nil
	case int64:
		return fromSerial(float64(v)), nil
	case string:
		return normalizeString(v)
	default:
		return time.Time{}, ErrInvalidDateType
	}
}

func fromSerial(serial float64) time.Time {
	// the fractional part is an intra-day time, irrelevant here
	unixDays := int64(math.Floor(serial)) - serialEpochOffsetDays
	return time.Unix(unixDays*86400, 0).UTC()
}

func normalizeString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if isoDateRe.MatchString(s) {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return t, nil
	}

	if m := dmyDateRe.FindStringSubmatch(s); m != nil {
		month, ok := monthAbbrevs[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, ErrInvalidMonthAbbrev
		}
		day := atoi2(m[1])
		year := atoi2(m[3])
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Midnight(t.UTC()), nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

// atoi2 parses the 1-2 digit groups already vetted by the regexp.
func atoi2(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// Canonical formats a date in the canonical YYYY-MM-DD form.
func Canonical(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates a time to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
