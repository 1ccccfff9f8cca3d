package dbx

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Dialect captures the few places where PostgreSQL and SQLite differ for the
// queries issued by the repositories.
type Dialect struct {
	// Name is a human-readable identifier ("postgres", "sqlite").
	Name string
	// Driver is the database/sql driver name registered by the driver package.
	Driver string
	// Goose is the dialect name understood by goose.SetDialect.
	Goose string
	// MaxParams is the number of bind parameters a single statement may carry.
	MaxParams int

	numbered bool
	write    *sql.TxOptions
	read     *sql.TxOptions
}

var (
	// Postgres talks to PostgreSQL through jackc/pgx/v5/stdlib.
	Postgres = Dialect{
		Name:      "postgres",
		Driver:    "pgx",
		Goose:     "pgx",
		MaxParams: 65535,
		numbered:  true,
		write:     &sql.TxOptions{Isolation: sql.LevelSerializable},
		read:      &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
	}

	// SQLite talks to modernc.org/sqlite. SQLite transactions are serializable,
	// so no isolation level is requested explicitly.
	SQLite = Dialect{
		Name:      "sqlite",
		Driver:    "sqlite",
		Goose:     "sqlite3",
		MaxParams: 32766,
	}
)

// DialectFor returns the dialect registered for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Driver, "postgres":
		return Postgres, nil
	case SQLite.Driver, "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Placeholder returns the bind parameter marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// WriteTxOptions are used for transactions that must be all-or-nothing with
// respect to concurrent readers.
func (d Dialect) WriteTxOptions() *sql.TxOptions { return d.write }

// ReadTxOptions are used for multi-statement reads that must observe a single
// consistent snapshot.
func (d Dialect) ReadTxOptions() *sql.TxOptions { return d.read }
