package match

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rustyeddy/tradematch/ledger"
)

func sampleTrades() []ClosingTrade {
	return []ClosingTrade{
		{Row: 1, ExecutionTime: at(30), Contract: "A", Quantity: 1, OpenPrice: 100, ClosePrice: 105, NetPnL: 250},
		{Row: 2, ExecutionTime: at(25), Contract: "A", Quantity: 2, OpenPrice: 90, ClosePrice: 105, NetPnL: 1400},
		{Row: 3, ExecutionTime: at(30), Contract: "A", Quantity: 1, OpenPrice: 100, ClosePrice: 999},
		{Row: 4, ExecutionTime: at(25), Contract: "A", Quantity: 1, OpenPrice: 300, ClosePrice: 105},
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	for backend, s := range stores(t, l) {
		var (
			mu    sync.Mutex
			calls int
			last  int
		)
		p := &Pipeline{
			Store:   s,
			Window:  DefaultWindow,
			Workers: 3,
			Logger:  zaptest.NewLogger(t),
			RunID:   "run-1",
			Observer: func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				if done > last {
					last = done
				}
				assert.Equal(t, 3, total)
			},
		}

		res, err := p.Run(context.Background(), sampleTrades(), l)
		require.NoError(t, err, backend)

		require.Len(t, res.Rows, 2, backend)
		assert.True(t, res.Rows[0].OpenTime.Equal(at(20)), backend)
		assert.True(t, res.Rows[0].CloseTime.Equal(at(30)), backend)
		assert.Equal(t, "f006", res.Rows[0].FillID, backend)
		assert.True(t, res.Rows[1].OpenTime.Equal(at(0)), backend)
		assert.Equal(t, int64(2), res.Rows[1].Quantity, backend)

		rep := res.Report
		assert.Equal(t, "run-1", rep.RunID)
		assert.Equal(t, 4, rep.Trades)
		assert.Equal(t, 10, rep.Fills)
		assert.Equal(t, 3, rep.Joined)
		assert.Equal(t, 1, rep.JoinMisses)
		assert.Equal(t, 2, rep.Resolved)
		assert.Equal(t, 1, rep.ResolveMisses)
		assert.Equal(t, 2, rep.Emitted)
		assert.Equal(t, int64(1650), rep.NetPnL)
		assert.True(t, rep.FirstClose.Equal(at(25)))
		assert.True(t, rep.LastClose.Equal(at(30)))
		assert.False(t, rep.Finished.Before(rep.Started))

		assert.Equal(t, 3, calls)
		assert.Equal(t, 3, last)
	}
}

func TestPipelineNarrowWindow(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	p := &Pipeline{Store: ledger.NewMemoryStore(l), Window: 1}

	res, err := p.Run(context.Background(), sampleTrades(), l)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 3, res.Report.ResolveMisses)
	assert.Len(t, res.Resolved, 3)
}

func TestPipelineIdempotent(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	p := &Pipeline{Store: ledger.NewMemoryStore(l), Window: DefaultWindow, Workers: 8}

	a, err := p.Run(context.Background(), sampleTrades(), l)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), sampleTrades(), l)
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
	assert.Equal(t, a.Resolved, b.Resolved)
}

func TestPipelineStoreError(t *testing.T) {
	t.Parallel()

	l := sampleLedger()
	p := &Pipeline{Store: failingStore{err: context.DeadlineExceeded}, Window: DefaultWindow}

	_, err := p.Run(context.Background(), sampleTrades(), l)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipelineCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := sampleLedger()
	p := &Pipeline{Store: ledger.NewMemoryStore(l), Window: DefaultWindow}

	_, err := p.Run(ctx, sampleTrades(), l)
	assert.ErrorIs(t, err, context.Canceled)
}
