// Package repomanager provides the concrete RepositoryManager, wiring
// repository constructors to a SQL dialect and running database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/server/migrations"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/entities"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/shipments"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends database/sql backed repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewRepositoryManager constructs a RepositoryManager for dialect.
func NewRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

// Open opens a connection pool for driver/dsn, verifies it with a ping and
// returns it together with a matching RepositoryManager. SQLite pools are
// limited to a single connection and always enforce foreign keys.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, *SQLRepositoryManager, error) {
	dialect, err := dbx.DialectFor(driver)
	if err != nil {
		return nil, nil, err
	}

	if dialect.Name == dbx.SQLite.Name {
		dsn = withForeignKeys(dsn)
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if dialect.Name == dbx.SQLite.Name {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	return db, NewRepositoryManager(dialect), nil
}

const foreignKeysPragma = "_pragma=foreign_keys(1)"

// withForeignKeys appends the foreign_keys pragma to a SQLite DSN unless the
// DSN already sets it.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + foreignKeysPragma
	}
	return dsn + "?" + foreignKeysPragma
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

func (m *SQLRepositoryManager) Branches(db dbx.DBTX) entities.Repository[models.Branch] {
	return entities.NewSQLRepository(db, m.dialect, entities.BranchTable)
}

func (m *SQLRepositoryManager) Countries(db dbx.DBTX) entities.Repository[models.Country] {
	return entities.NewSQLRepository(db, m.dialect, entities.CountryTable)
}

func (m *SQLRepositoryManager) ShipmentStatuses(db dbx.DBTX) entities.Repository[models.ShipmentStatus] {
	return entities.NewSQLRepository(db, m.dialect, entities.ShipmentStatusTable)
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) entities.Repository[models.User] {
	return entities.NewSQLRepository(db, m.dialect, entities.UserTable)
}

func (m *SQLRepositoryManager) Shipments(db dbx.DBTX) entities.Repository[models.Shipment] {
	return entities.NewSQLRepository(db, m.dialect, entities.ShipmentTable)
}

func (m *SQLRepositoryManager) ShipmentHistories(db dbx.DBTX) entities.Repository[models.ShipmentHistory] {
	return entities.NewSQLRepository(db, m.dialect, entities.ShipmentHistoryTable)
}

func (m *SQLRepositoryManager) TrackingEvents(db dbx.DBTX) entities.Repository[models.TrackingEvent] {
	return entities.NewSQLRepository(db, m.dialect, entities.TrackingEventTable)
}

func (m *SQLRepositoryManager) Invoices(db dbx.DBTX) entities.Repository[models.Invoice] {
	return entities.NewSQLRepository(db, m.dialect, entities.InvoiceTable)
}

func (m *SQLRepositoryManager) Waybills(db dbx.DBTX) entities.Repository[models.Waybill] {
	return entities.NewSQLRepository(db, m.dialect, entities.WaybillTable)
}

func (m *SQLRepositoryManager) LogEntries(db dbx.DBTX) entities.Repository[models.LogEntry] {
	return entities.NewSQLRepository(db, m.dialect, entities.LogEntryTable)
}

func (m *SQLRepositoryManager) ShipmentOps(db dbx.DBTX) shipments.Repository {
	return shipments.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.Goose); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
