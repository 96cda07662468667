package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/market"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	trades := []ClosingTrade{
		{Row: 1, ExecutionTime: at(30), Contract: "A", ClosePrice: 105, OpenPrice: 100},
		{Row: 2, ExecutionTime: at(30), Contract: "A", ClosePrice: 106}, // wrong price
		{Row: 3, ExecutionTime: at(31), Contract: "A", ClosePrice: 105}, // wrong time
		{Row: 4, ExecutionTime: at(30), Contract: "B", ClosePrice: 105}, // wrong contract
		{Row: 5, ExecutionTime: at(20), Contract: "A", ClosePrice: 100}, // OPEN fill only
		{Row: 6, ExecutionTime: at(25), Contract: "A", ClosePrice: 105, OpenPrice: 90},
	}

	got, stats := Join(trades, l)

	assert.Equal(t, JoinStats{Trades: 6, Joined: 2, Unmatched: 4}, stats)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Row)
	assert.Equal(t, 6, got[0].Anchor)
	assert.Equal(t, "f006", got[0].CloseFillID)
	assert.Equal(t, int64(100), got[0].OpenPrice)

	assert.Equal(t, 6, got[1].Row)
	assert.Equal(t, 5, got[1].Anchor)
}

func TestJoinDuplicateKeyTakesLowestSeq(t *testing.T) {
	t.Parallel()

	l := ledger.Build([]ledger.RawFill{
		{ExecutionTime: at(0), Contract: "A", Side: market.SideOpen, Price: 100},
		{ExecutionTime: at(1), Contract: "A", Side: market.SideClose, Price: 110},
		{ExecutionTime: at(1), Contract: "A", Side: market.SideClose, Price: 110},
	}, ledger.WithIDGenerator(idGen()))

	got, stats := Join([]ClosingTrade{
		{ExecutionTime: at(1), Contract: "A", ClosePrice: 110},
	}, l)

	assert.Equal(t, 1, stats.Joined)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Anchor)
}

func TestJoinSameFillForTwoTrades(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	tr := ClosingTrade{ExecutionTime: at(30), Contract: "A", ClosePrice: 105}

	got, stats := Join([]ClosingTrade{tr, tr}, l)
	assert.Equal(t, 2, stats.Joined)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Anchor, got[1].Anchor)
}

func TestJoinMatchesInstantAcrossZones(t *testing.T) {
	t.Parallel()

	cst := time.FixedZone("CST", 8*3600)
	l := sampleLedger()

	got, stats := Join([]ClosingTrade{
		{ExecutionTime: at(30).In(cst), Contract: "A", ClosePrice: 105},
	}, l)

	assert.Equal(t, 1, stats.Joined)
	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Anchor)
}

func TestJoinEmpty(t *testing.T) {
	t.Parallel()

	got, stats := Join(nil, sampleLedger())
	assert.Empty(t, got)
	assert.Equal(t, JoinStats{}, stats)

	got, stats = Join([]ClosingTrade{{ExecutionTime: at(30), Contract: "A", ClosePrice: 105}}, ledger.Build(nil))
	assert.Empty(t, got)
	assert.Equal(t, 1, stats.Unmatched)
}
