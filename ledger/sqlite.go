package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/rustyeddy/tradematch/market"
)

// SQLiteStore keeps the ledger in an in-memory SQLite database and answers
// range queries through the seq primary key. Execution times are stored as
// Unix nanoseconds and come back in the ledger's location.
type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteStore creates the in-memory database and loads every fill of l
// in a single transaction. The database lives until Close.
func NewSQLiteStore(ctx context.Context, l *Ledger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	s := &SQLiteStore{db: db, loc: time.Local}
	if fills := l.Fills(); len(fills) > 0 {
		s.loc = fills[0].ExecutionTime.Location()
	}
	if err := s.load(ctx, l.Fills()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load(ctx context.Context, fills []Fill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin load")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills
		(seq, fill_id, execution_ns, contract, side, price, quantity, fee, tax)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, f := range fills {
		_, err := stmt.ExecContext(ctx,
			f.Seq, f.FillID, f.ExecutionTime.UnixNano(), f.Contract, int(f.Side),
			f.Price, f.Quantity, f.Fee, f.Tax,
		)
		if err != nil {
			return errors.Wrapf(err, "insert fill %d", f.Seq)
		}
	}
	return errors.Wrap(tx.Commit(), "commit load")
}

func (s *SQLiteStore) Range(ctx context.Context, lo, hi int) ([]Fill, error) {
	if hi <= lo {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, fill_id, execution_ns, contract, side, price, quantity, fee, tax
		FROM fills
		WHERE seq >= ? AND seq < ?
		ORDER BY seq ASC`, lo, hi)
	if err != nil {
		return nil, errors.Wrapf(err, "query fills [%d,%d)", lo, hi)
	}
	defer rows.Close()

	var out []Fill
	for rows.Next() {
		var (
			f    Fill
			ns   int64
			side int
		)
		if err := rows.Scan(
			&f.Seq,
			&f.FillID,
			&ns,
			&f.Contract,
			&side,
			&f.Price,
			&f.Quantity,
			&f.Fee,
			&f.Tax,
		); err != nil {
			return nil, errors.Wrap(err, "scan fill")
		}
		f.ExecutionTime = time.Unix(0, ns).In(s.loc)
		f.Side = market.Side(side)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
