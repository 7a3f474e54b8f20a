package transform

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Coercion rules for the raw extracts. Every function is pure and fail-soft:
// malformed input yields nil rather than an error, so a bad value never costs
// a row. The FOIA extracts pad blank cells with a single space, so all
// parsers trim first.

const dateLayout = "20060102"

// ParseDate parses fixed 8-digit YYYYMMDD text to a UTC calendar date.
// Wrong length, non-digits and impossible calendar days all yield nil.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if len(s) != len(dateLayout) {
		return nil
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseInt parses integer-like text (birth years, casualty counts).
func ParseInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat parses decimal text (coordinates).
func ParseFloat(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseFlag normalizes both flag encodings found in the extracts, Y/N and
// -1/0, to one tri-state boolean domain. Any other literal is unknown.
func ParseFlag(raw string) *bool {
	v := false
	switch strings.TrimSpace(raw) {
	case "Y", "-1":
		v = true
	case "N", "0":
		// v stays false
	default:
		return nil
	}
	return &v
}

// TitleCase capitalizes the first letter of each whitespace-separated token
// and lowercases the rest ("LAKE OF THE OZARKS" -> "Lake Of The Ozarks").
// Only applied to display fields such as day-of-week and body-of-water.
func TitleCase(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		r := []rune(strings.ToLower(f))
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}

// TitleCased is the nullable variant used when populating record columns:
// blank input is absent, not an empty string.
func TitleCased(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := TitleCase(raw)
	return &s
}

// CleanText trims a free-text field, returning nil for blank cells.
func CleanText(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
