// Package ingest reads the broker's CSV exports into typed rows.
package ingest

import (
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/market"
	"github.com/rustyeddy/tradematch/match"
)

// ErrInputNotFound is returned when an input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

type tradeRow struct {
	ExecutionTime string        `csv:"execution_time"`
	Contract      string        `csv:"contract_name"`
	Quantity      market.Amount `csv:"quantity"`
	OpenPrice     market.Amount `csv:"open_price"`
	ClosePrice    market.Amount `csv:"close_price"`
	NetPnL        market.Amount `csv:"net_pnl"`
}

type fillRow struct {
	ExecutionTime string        `csv:"execution_time"`
	Contract      string        `csv:"contract_name"`
	Side          market.Side   `csv:"position_side"`
	Price         market.Amount `csv:"execution_price"`
	Quantity      market.Amount `csv:"quantity"`
	Fee           market.Amount `csv:"fee"`
	Tax           market.Amount `csv:"tax"`
}

// Loader reads both exports.
type Loader struct {
	Times        *market.TimeParser
	TradeAliases map[string][]string // merged over DefaultTradeAliases
	FillAliases  map[string][]string // merged over DefaultFillAliases
}

// CheckInputs fails with ErrInputNotFound for the first path that does not
// exist.
func CheckInputs(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return errors.Wrapf(ErrInputNotFound, "%s", p)
			}
			return errors.Wrapf(err, "stat %s", p)
		}
	}
	return nil
}

func (ld *Loader) times() *market.TimeParser {
	if ld.Times == nil {
		return market.NewTimeParser(nil)
	}
	return ld.Times
}

// LoadTrades reads the summary log of closed positions.
func (ld *Loader) LoadTrades(path string) ([]match.ClosingTrade, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trades, err := ld.ReadTrades(f)
	return trades, errors.Wrapf(err, "%s", path)
}

// ReadTrades decodes summary log rows from r.
func (ld *Loader) ReadTrades(r io.Reader) ([]match.ClosingTrade, error) {
	var rows []tradeRow
	if err := decode(r, newHeaderMap(DefaultTradeAliases, ld.TradeAliases), tradeRequired, &rows); err != nil {
		return nil, err
	}

	tp := ld.times()
	out := make([]match.ClosingTrade, 0, len(rows))
	for i, row := range rows {
		t, err := tp.Parse(row.ExecutionTime)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad %s", i+1, ColExecutionTime)
		}
		out = append(out, match.ClosingTrade{
			Row:           i + 1,
			ExecutionTime: t,
			Contract:      strings.TrimSpace(row.Contract),
			Quantity:      row.Quantity.Int64(),
			OpenPrice:     row.OpenPrice.Int64(),
			ClosePrice:    row.ClosePrice.Int64(),
			NetPnL:        row.NetPnL.Int64(),
		})
	}
	return out, nil
}

// LoadFills reads the detailed fill log.
func (ld *Loader) LoadFills(path string) ([]ledger.RawFill, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fills, err := ld.ReadFills(f)
	return fills, errors.Wrapf(err, "%s", path)
}

// ReadFills decodes fill log rows from r, in file order.
func (ld *Loader) ReadFills(r io.Reader) ([]ledger.RawFill, error) {
	var rows []fillRow
	if err := decode(r, newHeaderMap(DefaultFillAliases, ld.FillAliases), fillRequired, &rows); err != nil {
		return nil, err
	}

	tp := ld.times()
	out := make([]ledger.RawFill, 0, len(rows))
	for i, row := range rows {
		t, err := tp.Parse(row.ExecutionTime)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad %s", i+1, ColExecutionTime)
		}
		out = append(out, ledger.RawFill{
			ExecutionTime: t,
			Contract:      strings.TrimSpace(row.Contract),
			Side:          row.Side,
			Price:         row.Price.Int64(),
			Quantity:      row.Quantity.Int64(),
			Fee:           row.Fee.Int64(),
			Tax:           row.Tax.Int64(),
		})
	}
	return out, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrInputNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

func decode(r io.Reader, headers headerMap, required []string, out interface{}) error {
	ar := newAliasReader(r, headers)

	// Read the header up front so a wrong file fails with a useful message
	// instead of a slice of zero values.
	header, err := ar.Read()
	if err == io.EOF {
		return errors.New("empty file: no header row")
	}
	if err != nil {
		return errors.Wrap(err, "read header")
	}
	if miss := missing(header, required); len(miss) > 0 {
		return errors.Errorf("missing columns %s (have %s)",
			strings.Join(miss, ", "), strings.Join(header, ", "))
	}

	return errors.Wrap(gocsv.UnmarshalCSV(&replayHeader{ar, header}, out), "decode rows")
}

// replayHeader hands gocsv a header that has already been consumed.
type replayHeader struct {
	*aliasReader
	header []string
}

func (r *replayHeader) Read() ([]string, error) {
	if r.header != nil {
		h := r.header
		r.header = nil
		return h, nil
	}
	return r.aliasReader.Read()
}

func (r *replayHeader) ReadAll() ([][]string, error) {
	rest, err := r.aliasReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if r.header == nil {
		return rest, nil
	}
	h := r.header
	r.header = nil
	return append([][]string{h}, rest...), nil
}
