package journal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/tradematch/match"
)

// FormatTripOrg renders a RoundTrip as an Org-mode block. Structured facts
// go in a PROPERTIES drawer so they stay searchable.
func FormatTripOrg(t match.RoundTrip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Contract, t.CloseTime.Format("2006-01-02"), shortID(t.FillID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":FILL_ID: %s\n", t.FillID)
	fmt.Fprintf(&b, ":CONTRACT: %s\n", t.Contract)
	fmt.Fprintf(&b, ":QUANTITY: %d\n", t.Quantity)
	fmt.Fprintf(&b, ":OPEN_PRICE: %d\n", t.OpenPrice)
	fmt.Fprintf(&b, ":CLOSE_PRICE: %d\n", t.ClosePrice)
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", t.OpenTime.Format(TimeLayout))
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", t.CloseTime.Format(TimeLayout))
	fmt.Fprintf(&b, ":HELD: %s\n", t.CloseTime.Sub(t.OpenTime))
	fmt.Fprintf(&b, ":NET_PNL: %d\n", t.NetPnL)
	b.WriteString(":END:\n")
	return b.String()
}

// FormatTripsOrg renders multiple trips separated by blank lines.
func FormatTripsOrg(trips []match.RoundTrip) string {
	var b strings.Builder
	for n, t := range trips {
		if n > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTripOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

// OrgJournal appends one Org block per trip to a file.
type OrgJournal struct {
	f *os.File
	w *bufio.Writer
	n int
}

func NewOrg(path string) (*OrgJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString("* Round trips\n"); err != nil {
		f.Close()
		return nil, err
	}
	return &OrgJournal{f: f, w: w}, nil
}

func (j *OrgJournal) RecordTrip(t match.RoundTrip) error {
	if j.n > 0 {
		if err := j.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	j.n++
	_, err := j.w.WriteString(FormatTripOrg(t))
	return err
}

func (j *OrgJournal) Close() error {
	if err := j.w.Flush(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
