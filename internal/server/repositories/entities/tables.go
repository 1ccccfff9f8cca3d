package entities

import (
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
)

var BranchTable = &Table[models.Branch]{
	Kind:    schema.Branches,
	Name:    "branches",
	Columns: []string{"id", "name", "code", "address", "phone", "is_active", "created_at", "updated_at"},
	Values: func(b *models.Branch) []any {
		return []any{b.ID, b.Name, b.Code, b.Address, b.Phone, b.IsActive,
			timex.Normalize(b.CreatedAt), timex.Normalize(b.UpdatedAt)}
	},
	Scan: func(b *models.Branch) []any {
		return []any{&b.ID, &b.Name, &b.Code, &b.Address, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt}
	},
	Normalize: func(b *models.Branch) {
		b.CreatedAt, b.UpdatedAt = timex.Normalize(b.CreatedAt), timex.Normalize(b.UpdatedAt)
	},
}

var CountryTable = &Table[models.Country]{
	Kind:    schema.Countries,
	Name:    "countries",
	Columns: []string{"id", "name", "code", "type", "created_at", "updated_at"},
	Values: func(c *models.Country) []any {
		return []any{c.ID, c.Name, c.Code, string(c.Type),
			timex.Normalize(c.CreatedAt), timex.Normalize(c.UpdatedAt)}
	},
	Scan: func(c *models.Country) []any {
		return []any{&c.ID, &c.Name, &c.Code, &c.Type, &c.CreatedAt, &c.UpdatedAt}
	},
	Normalize: func(c *models.Country) {
		c.CreatedAt, c.UpdatedAt = timex.Normalize(c.CreatedAt), timex.Normalize(c.UpdatedAt)
	},
}

var ShipmentStatusTable = &Table[models.ShipmentStatus]{
	Kind:    schema.ShipmentStatuses,
	Name:    "shipment_statuses",
	Columns: []string{"id", "name", "code", "color", "sort_order", "is_final", "created_at", "updated_at"},
	Values: func(s *models.ShipmentStatus) []any {
		return []any{s.ID, s.Name, s.Code, s.Color, s.SortOrder, s.IsFinal,
			timex.Normalize(s.CreatedAt), timex.Normalize(s.UpdatedAt)}
	},
	Scan: func(s *models.ShipmentStatus) []any {
		return []any{&s.ID, &s.Name, &s.Code, &s.Color, &s.SortOrder, &s.IsFinal, &s.CreatedAt, &s.UpdatedAt}
	},
	Normalize: func(s *models.ShipmentStatus) {
		s.CreatedAt, s.UpdatedAt = timex.Normalize(s.CreatedAt), timex.Normalize(s.UpdatedAt)
	},
}

var UserTable = &Table[models.User]{
	Kind:    schema.Users,
	Name:    "users",
	Columns: []string{"id", "email", "name", "password_hash", "role", "branch_id", "is_active", "created_at", "updated_at"},
	Values: func(u *models.User) []any {
		return []any{u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), nullString(u.BranchID), u.IsActive,
			timex.Normalize(u.CreatedAt), timex.Normalize(u.UpdatedAt)}
	},
	Scan: func(u *models.User) []any {
		return []any{&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.BranchID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt}
	},
	Normalize: func(u *models.User) {
		u.CreatedAt, u.UpdatedAt = timex.Normalize(u.CreatedAt), timex.Normalize(u.UpdatedAt)
	},
}

var ShipmentTable = &Table[models.Shipment]{
	Kind: schema.Shipments,
	Name: "shipments",
	Columns: []string{"id", "tracking_number", "branch_id", "created_by_id", "status_id",
		"origin_country_id", "destination_country_id", "sender_name", "sender_phone",
		"receiver_name", "receiver_phone", "receiver_address", "weight", "declared_value",
		"notes", "created_at", "updated_at"},
	Values: func(s *models.Shipment) []any {
		return []any{s.ID, s.TrackingNumber, s.BranchID, s.CreatedByID, s.StatusID,
			s.OriginCountryID, s.DestinationCountryID, s.SenderName, s.SenderPhone,
			s.ReceiverName, s.ReceiverPhone, s.ReceiverAddress, s.Weight, s.DeclaredValue,
			s.Notes, timex.Normalize(s.CreatedAt), timex.Normalize(s.UpdatedAt)}
	},
	Scan: func(s *models.Shipment) []any {
		return []any{&s.ID, &s.TrackingNumber, &s.BranchID, &s.CreatedByID, &s.StatusID,
			&s.OriginCountryID, &s.DestinationCountryID, &s.SenderName, &s.SenderPhone,
			&s.ReceiverName, &s.ReceiverPhone, &s.ReceiverAddress, &s.Weight, &s.DeclaredValue,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt}
	},
	Normalize: func(s *models.Shipment) {
		s.CreatedAt, s.UpdatedAt = timex.Normalize(s.CreatedAt), timex.Normalize(s.UpdatedAt)
	},
}

var ShipmentHistoryTable = &Table[models.ShipmentHistory]{
	Kind:    schema.ShipmentHistories,
	Name:    "shipment_histories",
	Columns: []string{"id", "shipment_id", "user_id", "status_id", "notes", "created_at"},
	Values: func(h *models.ShipmentHistory) []any {
		return []any{h.ID, h.ShipmentID, h.UserID, h.StatusID, h.Notes, timex.Normalize(h.CreatedAt)}
	},
	Scan: func(h *models.ShipmentHistory) []any {
		return []any{&h.ID, &h.ShipmentID, &h.UserID, &h.StatusID, &h.Notes, &h.CreatedAt}
	},
	Normalize: func(h *models.ShipmentHistory) {
		h.CreatedAt = timex.Normalize(h.CreatedAt)
	},
}

var TrackingEventTable = &Table[models.TrackingEvent]{
	Kind:    schema.TrackingEvents,
	Name:    "tracking_events",
	Columns: []string{"id", "shipment_id", "user_id", "status_id", "location", "description", "occurred_at", "created_at"},
	Values: func(e *models.TrackingEvent) []any {
		return []any{e.ID, e.ShipmentID, e.UserID, e.StatusID, e.Location, e.Description,
			timex.Normalize(e.OccurredAt), timex.Normalize(e.CreatedAt)}
	},
	Scan: func(e *models.TrackingEvent) []any {
		return []any{&e.ID, &e.ShipmentID, &e.UserID, &e.StatusID, &e.Location, &e.Description, &e.OccurredAt, &e.CreatedAt}
	},
	Normalize: func(e *models.TrackingEvent) {
		e.OccurredAt, e.CreatedAt = timex.Normalize(e.OccurredAt), timex.Normalize(e.CreatedAt)
	},
}

var InvoiceTable = &Table[models.Invoice]{
	Kind:    schema.Invoices,
	Name:    "invoices",
	Columns: []string{"id", "shipment_id", "number", "amount", "currency", "issued_at", "created_at"},
	Values: func(i *models.Invoice) []any {
		return []any{i.ID, i.ShipmentID, i.Number, i.Amount, i.Currency,
			timex.Normalize(i.IssuedAt), timex.Normalize(i.CreatedAt)}
	},
	Scan: func(i *models.Invoice) []any {
		return []any{&i.ID, &i.ShipmentID, &i.Number, &i.Amount, &i.Currency, &i.IssuedAt, &i.CreatedAt}
	},
	Normalize: func(i *models.Invoice) {
		i.IssuedAt, i.CreatedAt = timex.Normalize(i.IssuedAt), timex.Normalize(i.CreatedAt)
	},
}

var WaybillTable = &Table[models.Waybill]{
	Kind:    schema.Waybills,
	Name:    "waybills",
	Columns: []string{"id", "shipment_id", "number", "issued_at", "created_at"},
	Values: func(w *models.Waybill) []any {
		return []any{w.ID, w.ShipmentID, w.Number, timex.Normalize(w.IssuedAt), timex.Normalize(w.CreatedAt)}
	},
	Scan: func(w *models.Waybill) []any {
		return []any{&w.ID, &w.ShipmentID, &w.Number, &w.IssuedAt, &w.CreatedAt}
	},
	Normalize: func(w *models.Waybill) {
		w.IssuedAt, w.CreatedAt = timex.Normalize(w.IssuedAt), timex.Normalize(w.CreatedAt)
	},
}

var LogEntryTable = &Table[models.LogEntry]{
	Kind:    schema.LogEntries,
	Name:    "log_entries",
	Columns: []string{"id", "user_id", "shipment_id", "action", "details", "created_at"},
	Values: func(l *models.LogEntry) []any {
		return []any{l.ID, l.UserID, nullString(l.ShipmentID), l.Action, l.Details, timex.Normalize(l.CreatedAt)}
	},
	Scan: func(l *models.LogEntry) []any {
		return []any{&l.ID, &l.UserID, &l.ShipmentID, &l.Action, &l.Details, &l.CreatedAt}
	},
	Normalize: func(l *models.LogEntry) {
		l.CreatedAt = timex.Normalize(l.CreatedAt)
	},
}
