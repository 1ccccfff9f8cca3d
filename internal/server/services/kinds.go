package services

import (
	"context"

	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/entities"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
)

// kindOps erases the record type of one kind so backup code can walk the
// dependency graph generically.
type kindOps struct {
	count     func(ctx context.Context, db dbx.DBTX) (int, error)
	deleteAll func(ctx context.Context, db dbx.DBTX) (int64, error)
	load      func(ctx context.Context, db dbx.DBTX, s *snapshot.Snapshot) error
	store     func(ctx context.Context, db dbx.DBTX, s *snapshot.Snapshot) (int, error)
}

func bind[T any](repo func(dbx.DBTX) entities.Repository[T], field func(*snapshot.Snapshot) *[]T) kindOps {
	return kindOps{
		count: func(ctx context.Context, db dbx.DBTX) (int, error) {
			return repo(db).Count(ctx)
		},
		deleteAll: func(ctx context.Context, db dbx.DBTX) (int64, error) {
			return repo(db).DeleteAll(ctx)
		},
		load: func(ctx context.Context, db dbx.DBTX, s *snapshot.Snapshot) error {
			rows, err := repo(db).SelectAll(ctx)
			if err != nil {
				return err
			}
			*field(s) = rows
			return nil
		},
		store: func(ctx context.Context, db dbx.DBTX, s *snapshot.Snapshot) (int, error) {
			rows := *field(s)
			n, err := repo(db).InsertBulk(ctx, rows)
			return int(n), err
		},
	}
}

// registry returns the operations of every kind declared in schema.Store.
func registry(m repomanager.RepositoryManager) map[schema.Kind]kindOps {
	return map[schema.Kind]kindOps{
		schema.Branches:          bind(m.Branches, func(s *snapshot.Snapshot) *[]models.Branch { return &s.Branches }),
		schema.Countries:         bind(m.Countries, func(s *snapshot.Snapshot) *[]models.Country { return &s.Countries }),
		schema.ShipmentStatuses:  bind(m.ShipmentStatuses, func(s *snapshot.Snapshot) *[]models.ShipmentStatus { return &s.ShipmentStatuses }),
		schema.Users:             bind(m.Users, func(s *snapshot.Snapshot) *[]models.User { return &s.Users }),
		schema.Shipments:         bind(m.Shipments, func(s *snapshot.Snapshot) *[]models.Shipment { return &s.Shipments }),
		schema.ShipmentHistories: bind(m.ShipmentHistories, func(s *snapshot.Snapshot) *[]models.ShipmentHistory { return &s.ShipmentHistories }),
		schema.TrackingEvents:    bind(m.TrackingEvents, func(s *snapshot.Snapshot) *[]models.TrackingEvent { return &s.TrackingEvents }),
		schema.Invoices:          bind(m.Invoices, func(s *snapshot.Snapshot) *[]models.Invoice { return &s.Invoices }),
		schema.Waybills:          bind(m.Waybills, func(s *snapshot.Snapshot) *[]models.Waybill { return &s.Waybills }),
		schema.LogEntries:        bind(m.LogEntries, func(s *snapshot.Snapshot) *[]models.LogEntry { return &s.LogEntries }),
	}
}
