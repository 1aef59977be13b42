package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoMonthRegex   = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	slashMonthRegex = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	namedMonthRegex = regexp.MustCompile(`^([a-z]+)(?:\s+(\d{4}))?$`)
)

// ParseMonth parses a calendar month and returns its first day in UTC.
// Supported formats:
// - empty or "this", "last", "next"
// - yyyy-mm (e.g., "2024-03")
// - mm/yyyy (e.g., "03/2024")
// - month names with an optional year (e.g., "march", "mar 2024")
func ParseMonth(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch input {
	case "", "this", "current":
		return current, nil
	case "last", "prev", "previous":
		return current.AddDate(0, -1, 0), nil
	case "next":
		return current.AddDate(0, 1, 0), nil
	}

	if matches := isoMonthRegex.FindStringSubmatch(input); len(matches) == 3 {
		return buildMonth(matches[1], matches[2])
	}
	if matches := slashMonthRegex.FindStringSubmatch(input); len(matches) == 3 {
		return buildMonth(matches[2], matches[1])
	}
	if matches := namedMonthRegex.FindStringSubmatch(input); len(matches) == 3 {
		if month, ok := monthByName(matches[1]); ok {
			year := now.Year()
			if matches[2] != "" {
				year, _ = strconv.Atoi(matches[2])
			}
			return buildMonth(strconv.Itoa(year), strconv.Itoa(int(month)))
		}
	}

	return time.Time{}, fmt.Errorf("invalid month %q. Use: yyyy-mm, mm/yyyy or a month name", input)
}

func buildMonth(yearStr, monthStr string) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1900 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 1900 and 2100")
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

func monthByName(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, true
		}
	}
	return 0, false
}
