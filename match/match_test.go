package match

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/market"
)

func at(min int) time.Time {
	return time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func idGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("f%03d", n-1)
	}
}

// sampleLedger mirrors a small slice of a real fill export:
//
//	0 A OPEN  90     5 A CLOSE 105
//	1 A OPEN  100    6 A CLOSE 105
//	2 B OPEN  200    7 B OPEN  200
//	3 A OPEN  101    8 C OPEN  300
//	4 A OPEN  100    9 A OPEN  100
func sampleLedger() *ledger.Ledger {
	contracts := []string{"A", "A", "B", "A", "A", "A", "A", "B", "C", "A"}
	sides := []market.Side{
		market.SideOpen, market.SideOpen, market.SideOpen, market.SideOpen, market.SideOpen,
		market.SideClose, market.SideClose, market.SideOpen, market.SideOpen, market.SideOpen,
	}
	prices := []int64{90, 100, 200, 101, 100, 105, 105, 200, 300, 100}

	raw := make([]ledger.RawFill, len(contracts))
	for i := range raw {
		raw[i] = ledger.RawFill{
			ExecutionTime: at(i * 5),
			Contract:      contracts[i],
			Side:          sides[i],
			Price:         prices[i],
			Quantity:      1,
		}
	}
	return ledger.Build(raw, ledger.WithIDGenerator(idGen()))
}

func stores(t *testing.T, l *ledger.Ledger) map[string]ledger.Store {
	t.Helper()

	out := map[string]ledger.Store{}
	for _, backend := range []string{ledger.BackendMemory, ledger.BackendSQLite} {
		s, err := ledger.OpenStore(context.Background(), backend, l)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		out[backend] = s
	}
	return out
}
