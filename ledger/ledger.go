// Package ledger builds the time ordered fill ledger that anchors trade
// matching, and the stores used to query windows of it.
package ledger

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradematch/market"
	"github.com/rustyeddy/tradematch/pkg/id"
)

// RawFill is one row of the broker's detailed fill export, numeric fields
// already normalized.
type RawFill struct {
	ExecutionTime time.Time
	Contract      string
	Side          market.Side
	Price         int64
	Quantity      int64
	Fee           int64
	Tax           int64
}

// Fill is a RawFill placed in the ledger.
//
// Seq is the fill's position in execution time order, starting at 0 with
// no gaps. Equal timestamps keep their input order.
type Fill struct {
	Seq    int
	FillID string
	RawFill
}

// Ledger is immutable once built and safe for concurrent readers.
type Ledger struct {
	fills []Fill
}

type buildOptions struct {
	newID func() string
}

// Option customizes Build.
type Option func(*buildOptions)

// WithIDGenerator replaces the fill id generator. Tests use it to get
// predictable ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *buildOptions) {
		o.newID = fn
	}
}

// Build sorts raw by execution time (stable), numbers the fills and
// assigns each a fill id. raw is not modified.
func Build(raw []RawFill, opts ...Option) *Ledger {
	o := buildOptions{newID: id.NewFillID}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := make([]RawFill, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutionTime.Before(sorted[j].ExecutionTime)
	})

	fills := make([]Fill, len(sorted))
	for i, r := range sorted {
		fills[i] = Fill{
			Seq:     i,
			FillID:  o.newID(),
			RawFill: r,
		}
	}
	return &Ledger{fills: fills}
}

// Len returns the number of fills.
func (l *Ledger) Len() int {
	return len(l.fills)
}

// At returns the fill with the given sequence number.
func (l *Ledger) At(seq int) (Fill, bool) {
	if seq < 0 || seq >= len(l.fills) {
		return Fill{}, false
	}
	return l.fills[seq], true
}

// Fills returns the fills in sequence order. Callers must not modify the
// returned slice.
func (l *Ledger) Fills() []Fill {
	return l.fills
}

// Closes returns the CLOSE fills in sequence order.
func (l *Ledger) Closes() []Fill {
	var out []Fill
	for _, f := range l.fills {
		if f.Side == market.SideClose {
			out = append(out, f)
		}
	}
	return out
}
