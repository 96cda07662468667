package ingest

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// aliasReader feeds gocsv. It rewrites the header row to canonical names
// and pads short rows to the header width.
type aliasReader struct {
	r       *csv.Reader
	headers headerMap
	header  []string
}

func newAliasReader(in io.Reader, headers headerMap) *aliasReader {
	// Spreadsheet exports usually start with a BOM; drop it if present.
	dec := transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &aliasReader{r: r, headers: headers}
}

func (a *aliasReader) Read() ([]string, error) {
	row, err := a.r.Read()
	if err != nil {
		return nil, err
	}
	if a.header == nil {
		a.header = a.headers.canonical(row)
		return a.header, nil
	}
	for len(row) < len(a.header) {
		row = append(row, "")
	}
	return row, nil
}

func (a *aliasReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := a.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
