// Package journal writes merged round trips and run reports.
package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradematch/match"
)

// TimeLayout is used for every timestamp the journals write.
const TimeLayout = "2006-01-02 15:04:05"

// Journal receives round trips in output order.
type Journal interface {
	RecordTrip(match.RoundTrip) error
	Close() error
}

// Output formats accepted by Open.
const (
	FormatCSV = "csv"
	FormatOrg = "org"
)

// Open creates the journal for format at path. bom only applies to CSV.
func Open(format, path string, bom bool) (Journal, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewCSV(path, bom)
	case FormatOrg:
		return NewOrg(path)
	default:
		return nil, fmt.Errorf("unknown output format %q (use csv or org)", format)
	}
}

// RecordAll writes every trip to j.
func RecordAll(j Journal, trips []match.RoundTrip) error {
	for _, t := range trips {
		if err := j.RecordTrip(t); err != nil {
			return err
		}
	}
	return nil
}
