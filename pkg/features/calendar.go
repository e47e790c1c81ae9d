package features

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an upstream timestamp. A trailing UTC marker is
// stripped first: the scheduler serializes local clinic times with a "Z"
// suffix that carries no real offset.
func ParseTimestamp(value interface{}) (time.Time, bool) {
	raw := asString(value)
	if raw == "" {
		return time.Time{}, false
	}
	raw = strings.TrimSuffix(raw, "Z")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Age computes whole years as floor(daysSinceBirth / 365.25). Missing or
// unparseable birth dates take the configured default.
func Age(birthDate interface{}, now time.Time, def int) int {
	birth, ok := ParseTimestamp(birthDate)
	if !ok {
		return def
	}
	days := int(now.Sub(birth).Hours() / 24)
	return int(float64(days) / 365.25)
}

// LeadTime returns the days between request and consultation, floored at
// one; either side missing yields the configured default.
func LeadTime(requestDate, consultDate interface{}, def int) int {
	request, okReq := ParseTimestamp(requestDate)
	consult, okCons := ParseTimestamp(consultDate)
	if !okReq || !okCons {
		return def
	}
	days := int(consult.Sub(request).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// LegacyDayOfWeek returns the Sunday-indexed 1-7 weekday (Sunday=1,
// Saturday=7) the downstream analytics system numbers days with. The
// model was trained against this numbering; do not replace it with
// time.Weekday semantics.
func LegacyDayOfWeek(t time.Time) int {
	mondayIndexed := (int(t.Weekday()) + 6) % 7
	legacy := (mondayIndexed + 2) % 7
	if legacy == 0 {
		legacy = 7
	}
	return legacy
}

// IsWeekend reports whether a legacy day-of-week code falls on Saturday
// or Sunday.
func IsWeekend(legacyDow int) bool {
	return legacyDow == 1 || legacyDow == 7
}
