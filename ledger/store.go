package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Store answers sequence range queries over a ledger.
type Store interface {
	// Range returns the fills with lo <= Seq < hi in ascending Seq order.
	// Bounds outside the ledger are clipped; an empty range is not an error.
	Range(ctx context.Context, lo, hi int) ([]Fill, error)
	Close() error
}

// Backend names accepted by OpenStore.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// OpenStore returns a store of the named backend loaded with l.
func OpenStore(ctx context.Context, backend string, l *Ledger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(l), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, l)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q (use memory or sqlite)", backend)
	}
}

// MemoryStore serves ranges straight from the ledger's fill slice.
type MemoryStore struct {
	fills []Fill
}

func NewMemoryStore(l *Ledger) *MemoryStore {
	return &MemoryStore{fills: l.Fills()}
}

func (s *MemoryStore) Range(ctx context.Context, lo, hi int) ([]Fill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, nil
	}

	// Seq is an attribute of the fill, not its slice index, so look the
	// bounds up rather than slicing by number.
	i := sort.Search(len(s.fills), func(k int) bool { return s.fills[k].Seq >= lo })
	j := sort.Search(len(s.fills), func(k int) bool { return s.fills[k].Seq >= hi })
	if i >= j {
		return nil, nil
	}

	out := make([]Fill, j-i)
	copy(out, s.fills[i:j])
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
