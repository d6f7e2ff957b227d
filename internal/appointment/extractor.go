// Package appointment parses free text into structured booking candidates:
// email, date phrase, time of day, timezone hint, and truck type. Every
// field is independently optional; extraction never guesses.
package appointment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Candidate is a partially or fully extracted appointment request built from
// a single user message. Zero-value fields mean "not mentioned".
type Candidate struct {
	// TruckType is the service label, e.g. "2-horse". Empty when the message
	// did not name one; the resolver substitutes its default on completion.
	TruckType string
	// Email is the first syntactically valid address in the message.
	Email string
	// DatePhrase is the raw matched date/time wording, e.g. "tomorrow 2pm".
	DatePhrase string
	// Date is the resolved calendar date (midnight, in now's location).
	// Zero when no date expression matched.
	Date time.Time
	// Hour/Minute hold the extracted wall-clock time when HasTime is set.
	Hour    int
	Minute  int
	HasTime bool
	// Timezone is the IANA zone resolved from a named-place hint, e.g.
	// "Europe/London". Empty when the message carried no hint.
	Timezone string
}

// HasDate reports whether a date expression was found.
func (c Candidate) HasDate() bool {
	return !c.Date.IsZero()
}

// HasSchedule reports whether the candidate carries any date or time signal.
func (c Candidate) HasSchedule() bool {
	return c.HasDate() || c.HasTime
}

// StartInstant resolves the candidate into a concrete start time using
// defaultHour when no explicit time was extracted. The wall-clock time is
// built directly in the hinted zone (falling back to now's location), so a
// later UTC conversion is localize-then-convert by construction.
func (c Candidate) StartInstant(now time.Time, defaultHour int) (time.Time, error) {
	loc := now.Location()
	if c.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(c.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("appointment: unknown zone %q: %w", c.Timezone, err)
		}
	}

	date := c.Date
	if date.IsZero() {
		date = now
	}

	hour, minute := defaultHour, 0
	if c.HasTime {
		hour, minute = c.Hour, c.Minute
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

var emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// timeRE captures (hour)(:minute)?(meridiem). A single pattern with an
// explicit meridiem group avoids the prefix-collision bug class of matching
// "2pm" inside "12pm".
var timeRE = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)

// clockRE matches 24-hour "14:00" style times without a meridiem.
var clockRE = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

var inDaysRE = regexp.MustCompile(`\b(?:in\s+)?(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\s+days?\b`)

var ordinalDayRE = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// weekdays is ordered so that a message naming several days resolves
// deterministically to the first one listed.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// zoneHints maps named places to IANA zones, in scan order. When a message
// names several places the first entry here wins.
var zoneHints = []struct {
	place string
	zone  string
}{
	{"london", "Europe/London"},
	{"new york", "America/New_York"},
	{"tokyo", "Asia/Tokyo"},
	{"sydney", "Australia/Sydney"},
	{"paris", "Europe/Paris"},
	{"berlin", "Europe/Berlin"},
	{"dubai", "Asia/Dubai"},
}

// ErrInvalidNow is returned when the reference instant is unusable.
var ErrInvalidNow = errors.New("appointment: reference time must not be zero")

// Extract parses a message into a booking candidate relative to now. Absent
// fields are not an error; only a malformed reference time is.
func Extract(text string, now time.Time) (Candidate, error) {
	if now.IsZero() {
		return Candidate{}, ErrInvalidNow
	}

	lower := strings.ToLower(text)
	var c Candidate
	var phrase []string

	c.Email = extractEmail(text)
	c.TruckType = ExtractTruckType(lower)
	c.Timezone = extractZone(lower)

	if date, matched, ok := extractDate(lower, now); ok {
		c.Date = date
		phrase = append(phrase, matched)
	}

	if hour, minute, matched, ok := extractTime(lower); ok {
		c.Hour = hour
		c.Minute = minute
		c.HasTime = true
		phrase = append(phrase, matched)
	}

	c.DatePhrase = strings.Join(phrase, " ")
	return c, nil
}

// extractEmail returns the first address in the text; further matches are
// ignored.
func extractEmail(text string) string {
	if m := emailRE.FindString(text); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// extractTime finds a wall-clock time. Meridiem forms take priority over
// bare 24-hour forms so "2:30pm" resolves to 14:30, not 2:30.
func extractTime(lower string) (hour, minute int, matched string, ok bool) {
	if m := timeRE.FindStringSubmatch(lower); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, "", false
		}
		if m[3] == "pm" && hour != 12 {
			hour += 12
		} else if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute, strings.TrimSpace(m[0]), true
	}

	if m := clockRE.FindStringSubmatch(lower); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, 0, "", false
		}
		return hour, minute, m[0], true
	}

	return 0, 0, "", false
}

// extractDate resolves relative date expressions against now. The returned
// date is midnight in now's location.
func extractDate(lower string, now time.Time) (time.Time, string, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), "tomorrow", true
	case strings.Contains(lower, "today"):
		return today, "today", true
	case strings.Contains(lower, "next week"):
		return today.AddDate(0, 0, 7), "next week", true
	}

	for _, wd := range weekdays {
		if !strings.Contains(lower, wd.name) {
			continue
		}
		// "next Monday" never means today, even when today is Monday.
		ahead := (int(wd.day) - int(now.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return today.AddDate(0, 0, ahead), wd.name, true
	}

	if m := inDaysRE.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = spelledNumbers[m[1]]
		}
		if n > 0 {
			return today.AddDate(0, 0, n), strings.TrimSpace(m[0]), true
		}
	}

	if m := ordinalDayRE.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			if date, ok := nextDayOfMonth(today, day); ok {
				return date, m[0], true
			}
		}
	}

	return time.Time{}, "", false
}

// nextDayOfMonth resolves a bare day-of-month to its soonest future
// occurrence, rolling into later months (and the next year past December)
// when the day has already passed or does not exist in a month.
func nextDayOfMonth(today time.Time, day int) (time.Time, bool) {
	for i := 0; i < 13; i++ {
		base := today.AddDate(0, i, 0)
		candidate := time.Date(base.Year(), base.Month(), day, 0, 0, 0, 0, today.Location())
		// Normalization moved us into the next month: day doesn't exist.
		if candidate.Day() != day {
			continue
		}
		if !candidate.Before(today) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// extractZone resolves a named-place timezone hint.
func extractZone(lower string) string {
	for _, h := range zoneHints {
		if strings.Contains(lower, h.place) {
			return h.zone
		}
	}
	return ""
}

// ExtractTruckType maps capacity mentions to a service label. Empty when the
// message names no truck type.
func ExtractTruckType(lower string) string {
	switch {
	case strings.Contains(lower, "2 horse") || strings.Contains(lower, "two horse"):
		return "2-horse"
	case strings.Contains(lower, "5 horse") || strings.Contains(lower, "five horse"):
		return "5-horse"
	case strings.Contains(lower, "6 horse") || strings.Contains(lower, "six horse"):
		return "6-horse"
	case strings.Contains(lower, "horse"):
		return "horse truck"
	}
	return ""
}
