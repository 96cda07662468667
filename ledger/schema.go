package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	seq INTEGER PRIMARY KEY,
	fill_id TEXT NOT NULL,
	execution_ns INTEGER NOT NULL,
	contract TEXT NOT NULL,
	side INTEGER NOT NULL,
	price INTEGER NOT NULL,
	quantity INTEGER NOT NULL,
	fee INTEGER NOT NULL,
	tax INTEGER NOT NULL
);
`
