package snapshot

import (
	"fmt"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

type idSet map[string]struct{}

func ids[T any](items []T, id func(*T) string) idSet {
	set := make(idSet, len(items))
	for i := range items {
		set[id(&items[i])] = struct{}{}
	}
	return set
}

// CheckReferences verifies that every foreign key inside s points at a record
// of the parent collection in s. Violations wrap
// common.ErrInvalidSnapshotFormat and name the first offending record.
func (s *Snapshot) CheckReferences() error {
	parents := map[schema.Kind]idSet{
		schema.Branches:         ids(s.Branches, func(b *models.Branch) string { return b.ID }),
		schema.Countries:        ids(s.Countries, func(c *models.Country) string { return c.ID }),
		schema.ShipmentStatuses: ids(s.ShipmentStatuses, func(st *models.ShipmentStatus) string { return st.ID }),
		schema.Users:            ids(s.Users, func(u *models.User) string { return u.ID }),
		schema.Shipments:        ids(s.Shipments, func(sh *models.Shipment) string { return sh.ID }),
	}

	check := func(kind schema.Kind, i int, field string, parent schema.Kind, id string) error {
		if _, ok := parents[parent][id]; ok {
			return nil
		}
		return fmt.Errorf("%w: %s[%d].%s references missing %s %q",
			common.ErrInvalidSnapshotFormat, kind, i, field, parent, id)
	}

	for i, u := range s.Users {
		if u.BranchID != nil {
			if err := check(schema.Users, i, "branchId", schema.Branches, *u.BranchID); err != nil {
				return err
			}
		}
	}
	for i, sh := range s.Shipments {
		for _, ref := range []struct {
			field  string
			parent schema.Kind
			id     string
		}{
			{"branchId", schema.Branches, sh.BranchID},
			{"createdById", schema.Users, sh.CreatedByID},
			{"statusId", schema.ShipmentStatuses, sh.StatusID},
			{"originCountryId", schema.Countries, sh.OriginCountryID},
			{"destinationCountryId", schema.Countries, sh.DestinationCountryID},
		} {
			if err := check(schema.Shipments, i, ref.field, ref.parent, ref.id); err != nil {
				return err
			}
		}
	}
	for i, h := range s.ShipmentHistories {
		if err := firstErr(
			check(schema.ShipmentHistories, i, "shipmentId", schema.Shipments, h.ShipmentID),
			check(schema.ShipmentHistories, i, "userId", schema.Users, h.UserID),
			check(schema.ShipmentHistories, i, "statusId", schema.ShipmentStatuses, h.StatusID),
		); err != nil {
			return err
		}
	}
	for i, e := range s.TrackingEvents {
		if err := firstErr(
			check(schema.TrackingEvents, i, "shipmentId", schema.Shipments, e.ShipmentID),
			check(schema.TrackingEvents, i, "userId", schema.Users, e.UserID),
			check(schema.TrackingEvents, i, "statusId", schema.ShipmentStatuses, e.StatusID),
		); err != nil {
			return err
		}
	}
	for i, inv := range s.Invoices {
		if err := check(schema.Invoices, i, "shipmentId", schema.Shipments, inv.ShipmentID); err != nil {
			return err
		}
	}
	for i, w := range s.Waybills {
		if err := check(schema.Waybills, i, "shipmentId", schema.Shipments, w.ShipmentID); err != nil {
			return err
		}
	}
	for i, l := range s.LogEntries {
		if err := check(schema.LogEntries, i, "userId", schema.Users, l.UserID); err != nil {
			return err
		}
		if l.ShipmentID != nil {
			if err := check(schema.LogEntries, i, "shipmentId", schema.Shipments, *l.ShipmentID); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
