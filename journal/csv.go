package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rustyeddy/tradematch/match"
)

// Header is the column row of the merged trades CSV.
var Header = []string{
	"close_time",
	"open_time",
	"contract_name",
	"quantity",
	"open_price",
	"close_price",
	"net_pnl",
	"fill_id",
}

// CSVJournal writes round trips as UTF-8 CSV. With a BOM the file opens
// correctly in spreadsheet software, which otherwise mangles non-ASCII
// contract names.
type CSVJournal struct {
	w   *csv.Writer
	enc io.WriteCloser
	f   io.Closer
}

// NewCSV creates path and writes the header row.
func NewCSV(path string, bom bool) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	j, err := newCSV(f, f, bom)
	if err != nil {
		f.Close()
		return nil, err
	}
	return j, nil
}

// NewCSVWriter writes to w. Closing the journal does not close w.
func NewCSVWriter(w io.Writer, bom bool) (*CSVJournal, error) {
	return newCSV(w, nil, bom)
}

func newCSV(w io.Writer, c io.Closer, bom bool) (*CSVJournal, error) {
	enc := unicode.UTF8.NewEncoder()
	if bom {
		enc = unicode.UTF8BOM.NewEncoder()
	}
	tw := transform.NewWriter(w, enc)

	j := &CSVJournal{w: csv.NewWriter(tw), enc: tw, f: c}
	if err := j.w.Write(Header); err != nil {
		return nil, err
	}
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordTrip(t match.RoundTrip) error {
	return j.w.Write([]string{
		t.CloseTime.Format(TimeLayout),
		t.OpenTime.Format(TimeLayout),
		t.Contract,
		i(t.Quantity),
		i(t.OpenPrice),
		i(t.ClosePrice),
		i(t.NetPnL),
		t.FillID,
	})
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	if err := j.enc.Close(); err != nil {
		return err
	}
	if j.f != nil {
		return j.f.Close()
	}
	return nil
}

func i(x int64) string {
	return strconv.FormatInt(x, 10)
}
