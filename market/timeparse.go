package market

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeLayouts are tried in order by TimeParser. The single digit
// month/day/hour forms also accept zero padded input.
var DefaultTimeLayouts = []string{
	"2006/1/2 15:04:05",
	"2006-1-2 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/1/2 15:04",
	"2006-1-2 15:04",
	"2006/1/2",
	"2006-1-2",
}

// TimeParser parses execution timestamps in a fixed location.
type TimeParser struct {
	Layouts  []string
	Location *time.Location
}

// NewTimeParser returns a parser for loc (time.Local when nil). Extra
// layouts are tried before the defaults.
func NewTimeParser(loc *time.Location, extra ...string) *TimeParser {
	if loc == nil {
		loc = time.Local
	}
	layouts := make([]string, 0, len(extra)+len(DefaultTimeLayouts))
	layouts = append(layouts, extra...)
	layouts = append(layouts, DefaultTimeLayouts...)
	return &TimeParser{Layouts: layouts, Location: loc}
}

// Parse returns the first successful parse of s.
func (p *TimeParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	for _, layout := range p.Layouts {
		if t, err := time.ParseInLocation(layout, s, p.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
