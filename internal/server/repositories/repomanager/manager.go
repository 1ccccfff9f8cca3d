package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/entities"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/shipments"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error

	Branches(db dbx.DBTX) entities.Repository[models.Branch]
	Countries(db dbx.DBTX) entities.Repository[models.Country]
	ShipmentStatuses(db dbx.DBTX) entities.Repository[models.ShipmentStatus]
	Users(db dbx.DBTX) entities.Repository[models.User]
	Shipments(db dbx.DBTX) entities.Repository[models.Shipment]
	ShipmentHistories(db dbx.DBTX) entities.Repository[models.ShipmentHistory]
	TrackingEvents(db dbx.DBTX) entities.Repository[models.TrackingEvent]
	Invoices(db dbx.DBTX) entities.Repository[models.Invoice]
	Waybills(db dbx.DBTX) entities.Repository[models.Waybill]
	LogEntries(db dbx.DBTX) entities.Repository[models.LogEntry]

	ShipmentOps(db dbx.DBTX) shipments.Repository
	Accounts(db dbx.DBTX) users.Repository
}
