package match

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/market"
)

// DefaultWindow is how many fills before the closing fill are searched.
const DefaultWindow = 5

// Resolver finds the opening fill of matched trades.
type Resolver struct {
	Store  ledger.Store
	Window int
}

// Resolve searches the Window fills immediately before m's closing fill,
// [max(0, Anchor-Window), Anchor), for an OPEN fill of the same contract at
// the trade's open price. The nearest such fill wins. Finding nothing is
// not an error; the result is simply left unresolved.
func (r *Resolver) Resolve(ctx context.Context, m MatchedTrade) (ResolvedTrade, error) {
	res := ResolvedTrade{MatchedTrade: m, OpenSeq: -1}
	if r.Window <= 0 {
		return res, nil
	}

	lo := m.Anchor - r.Window
	if lo < 0 {
		lo = 0
	}
	window, err := r.Store.Range(ctx, lo, m.Anchor)
	if err != nil {
		return res, fmt.Errorf("window for row %d: %w", m.Row, err)
	}

	f, ok := SelectOpening(window, m.Contract, m.OpenPrice, m.Anchor)
	if !ok {
		return res, nil
	}
	res.Resolved = true
	res.OpenTime = f.ExecutionTime
	res.OpenSeq = f.Seq
	return res, nil
}

// SelectOpening returns the OPEN fill for contract at price with the
// largest Seq below anchor.
func SelectOpening(window []ledger.Fill, contract string, price int64, anchor int) (ledger.Fill, bool) {
	var (
		best  ledger.Fill
		found bool
	)
	for _, f := range window {
		if f.Seq >= anchor {
			continue
		}
		if f.Side != market.SideOpen || f.Contract != contract || f.Price != price {
			continue
		}
		if !found || f.Seq > best.Seq {
			best, found = f, true
		}
	}
	return best, found
}
