package match

import (
	"time"

	"github.com/rustyeddy/tradematch/ledger"
)

type joinKey struct {
	at       int64
	price    int64
	contract string
}

func keyOf(t time.Time, price int64, contract string) joinKey {
	return joinKey{at: t.UnixNano(), price: price, contract: contract}
}

// JoinStats counts the outcome of Join.
type JoinStats struct {
	Trades    int
	Joined    int
	Unmatched int
}

// Join pairs each closing trade with the CLOSE fill that has the same
// execution time, contract and price (the trade's close price). When several
// fills share a key the one with the lowest Seq wins. Trades without a
// partner are dropped and counted. Output keeps the order of trades.
func Join(trades []ClosingTrade, l *ledger.Ledger) ([]MatchedTrade, JoinStats) {
	closes := make(map[joinKey]ledger.Fill)
	for _, f := range l.Closes() {
		k := keyOf(f.ExecutionTime, f.Price, f.Contract)
		if _, ok := closes[k]; !ok {
			closes[k] = f
		}
	}

	stats := JoinStats{Trades: len(trades)}
	out := make([]MatchedTrade, 0, len(trades))
	for _, tr := range trades {
		f, ok := closes[keyOf(tr.ExecutionTime, tr.ClosePrice, tr.Contract)]
		if !ok {
			stats.Unmatched++
			continue
		}
		out = append(out, MatchedTrade{
			ClosingTrade: tr,
			Anchor:       f.Seq,
			CloseFillID:  f.FillID,
		})
	}
	stats.Joined = len(out)
	return out, stats
}
