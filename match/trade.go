// Package match pairs closing trades from the summary log with the fills
// that opened them.
package match

import (
	"time"
)

// ClosingTrade is one row of the summary log of closed positions.
type ClosingTrade struct {
	Row           int // 1-based data row in the source file
	ExecutionTime time.Time
	Contract      string
	Quantity      int64
	OpenPrice     int64
	ClosePrice    int64
	NetPnL        int64
}

// MatchedTrade is a closing trade joined to its CLOSE fill.
type MatchedTrade struct {
	ClosingTrade
	Anchor      int // Seq of the joined CLOSE fill
	CloseFillID string
}

// ResolvedTrade is a matched trade after the opening fill search. OpenTime
// is meaningful only when Resolved is true.
type ResolvedTrade struct {
	MatchedTrade
	Resolved bool
	OpenTime time.Time
	OpenSeq  int
}

// RoundTrip is one complete trade as written to the output.
type RoundTrip struct {
	CloseTime  time.Time
	OpenTime   time.Time
	Contract   string
	Quantity   int64
	OpenPrice  int64
	ClosePrice int64
	NetPnL     int64
	FillID     string
}
