// Package snapshot defines the portable, point-in-time image of the entity
// store and the decode-and-validate step applied to untrusted snapshot
// documents.
package snapshot

import (
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

// Version is the snapshot format written by this build. Documents with a
// different major version are rejected.
const Version = "1.0"

// Snapshot holds one collection per entity kind. Collections are unordered;
// only the flattened id fields are used on restore.
type Snapshot struct {
	Users             []models.User            `json:"users"`
	Branches          []models.Branch          `json:"branches"`
	Countries         []models.Country         `json:"countries"`
	ShipmentStatuses  []models.ShipmentStatus  `json:"shipmentStatuses"`
	Shipments         []models.Shipment        `json:"shipments"`
	ShipmentHistories []models.ShipmentHistory `json:"shipmentHistories"`
	TrackingEvents    []models.TrackingEvent   `json:"trackingEvents"`
	Invoices          []models.Invoice         `json:"invoices"`
	Waybills          []models.Waybill         `json:"waybills"`
	LogEntries        []models.LogEntry        `json:"logEntries"`
	ExportDate        time.Time                `json:"exportDate"`
	Version           string                   `json:"version"`
}

// Counts returns the number of records per kind.
func (s *Snapshot) Counts() Counts {
	return Counts{
		schema.Users:             len(s.Users),
		schema.Branches:          len(s.Branches),
		schema.Countries:         len(s.Countries),
		schema.ShipmentStatuses:  len(s.ShipmentStatuses),
		schema.Shipments:         len(s.Shipments),
		schema.ShipmentHistories: len(s.ShipmentHistories),
		schema.TrackingEvents:    len(s.TrackingEvents),
		schema.Invoices:          len(s.Invoices),
		schema.Waybills:          len(s.Waybills),
		schema.LogEntries:        len(s.LogEntries),
	}
}

// Manifest summarises s without its records.
func (s *Snapshot) Manifest() *Manifest {
	return &Manifest{ExportDate: s.ExportDate, TotalRecords: s.Counts(), Version: s.Version}
}

// FillDisplayCopies sets the cosmetic parent summaries on users and
// shipments from the collections already present in s.
func (s *Snapshot) FillDisplayCopies() {
	branches := make(map[string]*models.BranchRef, len(s.Branches))
	for i := range s.Branches {
		branches[s.Branches[i].ID] = s.Branches[i].Ref()
	}
	countries := make(map[string]*models.CountryRef, len(s.Countries))
	for i := range s.Countries {
		countries[s.Countries[i].ID] = s.Countries[i].Ref()
	}
	statuses := make(map[string]*models.StatusRef, len(s.ShipmentStatuses))
	for i := range s.ShipmentStatuses {
		statuses[s.ShipmentStatuses[i].ID] = s.ShipmentStatuses[i].Ref()
	}
	users := make(map[string]*models.UserRef, len(s.Users))
	for i := range s.Users {
		u := &s.Users[i]
		users[u.ID] = u.Ref()
		if u.BranchID != nil {
			u.Branch = branches[*u.BranchID]
		}
	}
	for i := range s.Shipments {
		sh := &s.Shipments[i]
		sh.Branch = branches[sh.BranchID]
		sh.CreatedBy = users[sh.CreatedByID]
		sh.Status = statuses[sh.StatusID]
		sh.OriginCountry = countries[sh.OriginCountryID]
		sh.DestinationCountry = countries[sh.DestinationCountryID]
	}
}

// Manifest is the lightweight summary stored next to the full document so
// an archive can be previewed without parsing every record.
type Manifest struct {
	ExportDate   time.Time `json:"exportDate"`
	TotalRecords Counts    `json:"totalRecords"`
	Version      string    `json:"version"`
}

// Total is the sum of all per-kind counts.
func (m *Manifest) Total() int {
	return m.TotalRecords.Total()
}
