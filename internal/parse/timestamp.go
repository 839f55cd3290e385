package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const tradovateLayout = "01/02/2006 15:04:05"

// TradovateTime converts a Tradovate performance-export timestamp
// ("MM/DD/YYYY HH:mm:ss", US Central wall clock) into a UTC instant.
//
// Daylight saving is approximated by month alone: March through
// November is treated as CDT (UTC-5), everything else as CST (UTC-6).
// The real transitions fall on Sunday mornings inside March and
// November, so timestamps near those weekends can land an hour off.
// Downstream chart alignment depends on this exact conversion, so the
// approximation is kept as-is rather than replaced with a zone lookup.
func TradovateTime(s string) (time.Time, bool) {
	wall, err := time.Parse(tradovateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	offsetHours := -6
	if wall.Month() >= time.March && wall.Month() <= time.November {
		offsetHours = -5
	}
	return wall.Add(time.Duration(-offsetHours) * time.Hour), true
}

var topstepLayouts = []string{
	"January 2 2006 3:04:05 pm",
	"January 2, 2006 3:04:05 pm",
	"Jan 2 2006 3:04:05 pm",
	"January 2 2006 15:04:05",
}

var topstepRe = regexp.MustCompile(`(?i)([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})\s*@?\s*(\d{1,2}):(\d{2}):(\d{2})\s*(am|pm)`)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// TopstepTime parses TopstepX display timestamps of the form
// "December 5 2025 @ 3:53:26 pm". The wall clock is taken as-is in the
// process-local zone; TopstepX renders times in the viewer's zone
// already, so no broker-side offset is applied. Parsing never fails:
// the layered fallbacks end at time.Now so a bad timestamp costs one
// field, not the whole import.
func TopstepTime(s string) time.Time {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, " @ ", " "))
	for _, layout := range topstepLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, time.Local); err == nil {
			return t
		}
	}

	if m := topstepRe.FindStringSubmatch(s); m != nil {
		month, ok := monthsByName[strings.ToLower(m[1])]
		if ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			hour, _ := strconv.Atoi(m[4])
			minute, _ := strconv.Atoi(m[5])
			second, _ := strconv.Atoi(m[6])
			if strings.EqualFold(m[7], "pm") && hour < 12 {
				hour += 12
			}
			if strings.EqualFold(m[7], "am") && hour == 12 {
				hour = 0
			}
			return time.Date(year, month, day, hour, minute, second, 0, time.Local)
		}
	}

	return time.Now()
}

// ISOTime parses an ISO/RFC3339 timestamp from the TopstepX API,
// accepting both offset-suffixed and bare forms. Zero time on failure.
func ISOTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
