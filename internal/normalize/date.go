package normalize

import (
	"strings"
	"time"
	"unicode"
)

// DefaultDateLayouts covers the formats seen on the scraped sources.
var DefaultDateLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"02 Jan, 2006",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02 January 2006",
}

// ParseDate parses a day-granular date. When no layouts are given the
// DefaultDateLayouts are tried in order. The result is midnight UTC.
func ParseDate(field, raw string, layouts ...string) (time.Time, error) {
	s := strings.Join(strings.Fields(strings.ReplaceAll(raw, "\u00a0", " ")), " ")
	if s == "" {
		return time.Time{}, &ParseError{Field: field, Raw: raw, Err: ErrEmpty}
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, &ParseError{Field: field, Raw: raw, Err: ErrBadDate}
}

// Day truncates t to its calendar day in UTC, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CleanText collapses whitespace and drops non-printable runes from scraped prose.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\u00a0' {
			return ' '
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
