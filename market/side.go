package market

import "strings"

// Side tells whether a fill opened or closed a position.
type Side int

const (
	SideUnknown Side = iota
	SideOpen
	SideClose
)

func (s Side) String() string {
	switch s {
	case SideOpen:
		return "OPEN"
	case SideClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// ParseSide accepts the labels used by the broker export (新倉 / 平倉) and
// their English equivalents. Unrecognised labels map to SideUnknown.
func ParseSide(s string) Side {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "新倉", "OPEN", "O":
		return SideOpen
	case "平倉", "CLOSE", "C":
		return SideClose
	default:
		return SideUnknown
	}
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (s *Side) UnmarshalCSV(v string) error {
	*s = ParseSide(v)
	return nil
}
