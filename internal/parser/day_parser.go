package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical form of a journal day.
const DayLayout = "2006-01-02"

var (
	isoDayRegex   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDayRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	daysAgoRegex  = regexp.MustCompile(`^(\d+)\s*(d|day|days)\s+ago$`)
)

// ParseDay parses a day and returns it as YYYY-MM-DD.
// Supported formats:
// - empty, "today", "yesterday", "tomorrow"
// - X days ago (e.g., "3 days ago", "1 day ago", "2d ago")
// - weekday names (e.g., "monday"), meaning the most recent one
// - dd/mm/yyyy (e.g., "15/12/2024")
// - yyyy-mm-dd (e.g., "2024-12-15")
func ParseDay(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch input {
	case "", "today", "now":
		return today.Format(DayLayout), nil
	case "yesterday", "yday":
		return today.AddDate(0, 0, -1).Format(DayLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(DayLayout), nil
	}

	if matches := daysAgoRegex.FindStringSubmatch(input); len(matches) == 3 {
		amount, err := strconv.Atoi(matches[1])
		if err != nil || amount > 3650 {
			return "", fmt.Errorf("days ago must be between 0 and 3650")
		}
		return today.AddDate(0, 0, -amount).Format(DayLayout), nil
	}

	if weekday, ok := parseWeekday(input); ok {
		back := (int(today.Weekday()) - int(weekday) + 7) % 7
		return today.AddDate(0, 0, -back).Format(DayLayout), nil
	}

	if matches := isoDayRegex.FindStringSubmatch(input); len(matches) == 4 {
		return buildDay(matches[1], matches[2], matches[3])
	}
	if matches := slashDayRegex.FindStringSubmatch(input); len(matches) == 4 {
		return buildDay(matches[3], matches[2], matches[1])
	}

	return "", fmt.Errorf("invalid date %q. Use: today, yesterday, X days ago, a weekday, dd/mm/yyyy or yyyy-mm-dd", input)
}

func buildDay(yearStr, monthStr, dayStr string) (string, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if month < 1 || month > 12 {
		return "", fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("day must be between 1 and 31")
	}
	if year < 1900 || year > 2100 {
		return "", fmt.Errorf("year must be between 1900 and 2100")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalises 31/02 into March
	if date.Day() != day || date.Month() != time.Month(month) {
		return "", fmt.Errorf("%02d/%02d/%d is not a real date", day, month, year)
	}
	return date.Format(DayLayout), nil
}

func parseWeekday(input string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if input == name || input == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// FormatDay formats a YYYY-MM-DD day for display, relative to now when close.
func FormatDay(day string, now time.Time) string {
	date, err := time.Parse(DayLayout, day)
	if err != nil {
		return day
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysDiff := int(today.Sub(date).Hours() / 24)

	// Always show the actual date next to the relative one
	dateStr := date.Format("Mon 02/01/2006")

	switch {
	case daysDiff == 0:
		return fmt.Sprintf("today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("yesterday (%s)", dateStr)
	case daysDiff == -1:
		return fmt.Sprintf("tomorrow (%s)", dateStr)
	case daysDiff > 1 && daysDiff <= 7:
		return fmt.Sprintf("%s (%d days ago)", dateStr, daysDiff)
	default:
		return dateStr
	}
}
