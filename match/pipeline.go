package match

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/pkg/logger"
)

// Observer is told how many of total trades have been resolved. It may be
// called from several goroutines.
type Observer func(done, total int)

// Report counts what happened to the rows at each stage of a run.
type Report struct {
	RunID         string
	Window        int
	Started       time.Time
	Finished      time.Time
	Trades        int
	Fills         int
	Joined        int
	JoinMisses    int
	Resolved      int
	ResolveMisses int
	Emitted       int
	FirstClose    time.Time
	LastClose     time.Time
	NetPnL        int64
}

// Result is the outcome of Pipeline.Run.
type Result struct {
	Rows     []RoundTrip
	Resolved []ResolvedTrade
	Report   Report
}

// Pipeline joins, resolves and projects one batch of closing trades.
type Pipeline struct {
	Store    ledger.Store
	Window   int
	Workers  int // <= 0 means runtime.NumCPU()
	Observer Observer
	Logger   *zap.Logger
	RunID    string
}

// Run executes the pipeline against l. The store must have been loaded from
// the same ledger. Resolution of individual trades runs concurrently; the
// output order always follows the input order.
func (p *Pipeline) Run(ctx context.Context, trades []ClosingTrade, l *ledger.Ledger) (Result, error) {
	log := logger.OrNop(p.Logger)
	rep := Report{
		RunID:   p.RunID,
		Window:  p.Window,
		Started: time.Now(),
		Trades:  len(trades),
		Fills:   l.Len(),
	}

	matched, js := Join(trades, l)
	rep.Joined = js.Joined
	rep.JoinMisses = js.Unmatched
	log.Info("joined closing trades",
		zap.Int("trades", js.Trades),
		zap.Int("joined", js.Joined),
		zap.Int("unmatched", js.Unmatched),
	)

	resolved, err := p.resolveAll(ctx, matched, log)
	if err != nil {
		return Result{}, err
	}

	rows, dropped := Project(resolved)
	rep.Resolved = len(resolved) - dropped
	rep.ResolveMisses = dropped
	rep.Emitted = len(rows)
	for i, r := range rows {
		if i == 0 || r.CloseTime.Before(rep.FirstClose) {
			rep.FirstClose = r.CloseTime
		}
		if i == 0 || r.CloseTime.After(rep.LastClose) {
			rep.LastClose = r.CloseTime
		}
		rep.NetPnL += r.NetPnL
	}
	rep.Finished = time.Now()

	log.Info("resolved opening fills",
		zap.Int("resolved", rep.Resolved),
		zap.Int("unresolved", rep.ResolveMisses),
		zap.Int("emitted", rep.Emitted),
		zap.Duration("elapsed", rep.Finished.Sub(rep.Started)),
	)

	return Result{Rows: rows, Resolved: resolved, Report: rep}, nil
}

func (p *Pipeline) resolveAll(ctx context.Context, matched []MatchedTrade, log *zap.Logger) ([]ResolvedTrade, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	r := &Resolver{Store: p.Store, Window: p.Window}
	out := make([]ResolvedTrade, len(matched))
	total := len(matched)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range matched {
		i, m := i, m
		g.Go(func() error {
			res, err := r.Resolve(gctx, m)
			if err != nil {
				return err
			}
			out[i] = res
			if !res.Resolved {
				log.Debug("no opening fill in window",
					zap.Int("row", m.Row),
					zap.String("contract", m.Contract),
					zap.Int64("open_price", m.OpenPrice),
					zap.Int("anchor", m.Anchor),
				)
			}
			n := int(done.Add(1))
			if p.Observer != nil {
				p.Observer(n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
