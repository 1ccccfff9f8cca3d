// Package snapshottest builds referentially consistent snapshots for tests.
package snapshottest

import (
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/shopspring/decimal"
)

// At is the timestamp used for every record in Sample.
var At = time.Date(2025, 6, 1, 9, 15, 30, 123456000, time.UTC)

func ptr(s string) *string { return &s }

// Sample returns a snapshot with at least one record of every kind, two of
// most, covering nullable foreign keys both set and unset.
func Sample() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Branches: []models.Branch{
			{ID: "br-1", Name: "Central", Code: "CEN", Address: "1 Harbour Rd", Phone: "+10001", IsActive: true, CreatedAt: At, UpdatedAt: At},
			{ID: "br-2", Name: "North", Code: "NOR", IsActive: false, CreatedAt: At, UpdatedAt: At},
		},
		Countries: []models.Country{
			{ID: "co-1", Name: "Latvia", Code: "LV", Type: models.CountryOrigin, CreatedAt: At, UpdatedAt: At},
			{ID: "co-2", Name: "Japan", Code: "JP", Type: models.CountryBoth, CreatedAt: At, UpdatedAt: At},
		},
		ShipmentStatuses: []models.ShipmentStatus{
			{ID: "st-1", Name: "Received", Code: "RECEIVED", Color: "#999999", SortOrder: 1, CreatedAt: At, UpdatedAt: At},
			{ID: "st-2", Name: "Delivered", Code: "DELIVERED", Color: "#00aa00", SortOrder: 9, IsFinal: true, CreatedAt: At, UpdatedAt: At},
		},
		Users: []models.User{
			{ID: "us-1", Email: "manager@cargo.test", Name: "Manager", PasswordHash: "$2a$10$hash", Role: models.RoleManager, IsActive: true, CreatedAt: At, UpdatedAt: At},
			{ID: "us-2", Email: "clerk@cargo.test", Name: "Clerk", PasswordHash: "$2a$10$hash", Role: models.RoleBranch, BranchID: ptr("br-1"), IsActive: true, CreatedAt: At, UpdatedAt: At},
		},
		Shipments: []models.Shipment{
			{
				ID: "sh-1", TrackingNumber: "CD0001", BranchID: "br-1", CreatedByID: "us-2", StatusID: "st-1",
				OriginCountryID: "co-1", DestinationCountryID: "co-2",
				SenderName: "A. Sender", ReceiverName: "B. Receiver", ReceiverAddress: "2-1 Chiyoda",
				Weight: decimal.RequireFromString("12.5"), DeclaredValue: decimal.RequireFromString("300.25"),
				CreatedAt: At, UpdatedAt: At,
			},
			{
				ID: "sh-2", TrackingNumber: "CD0002", BranchID: "br-2", CreatedByID: "us-1", StatusID: "st-2",
				OriginCountryID: "co-2", DestinationCountryID: "co-2",
				Weight: decimal.RequireFromString("1"), DeclaredValue: decimal.Zero,
				Notes: "fragile", CreatedAt: At, UpdatedAt: At,
			},
		},
		ShipmentHistories: []models.ShipmentHistory{
			{ID: "hi-1", ShipmentID: "sh-1", UserID: "us-2", StatusID: "st-1", Notes: "created", CreatedAt: At},
			{ID: "hi-2", ShipmentID: "sh-2", UserID: "us-1", StatusID: "st-2", CreatedAt: At},
		},
		TrackingEvents: []models.TrackingEvent{
			{ID: "te-1", ShipmentID: "sh-1", UserID: "us-2", StatusID: "st-1", Location: "Riga", Description: "Accepted", OccurredAt: At, CreatedAt: At},
			{ID: "te-2", ShipmentID: "sh-2", UserID: "us-1", StatusID: "st-2", Location: "Tokyo", Description: "Delivered", OccurredAt: At, CreatedAt: At},
		},
		Invoices: []models.Invoice{
			{ID: "in-1", ShipmentID: "sh-1", Number: "INV-0001", Amount: decimal.RequireFromString("45.90"), Currency: "EUR", IssuedAt: At, CreatedAt: At},
		},
		Waybills: []models.Waybill{
			{ID: "wb-1", ShipmentID: "sh-1", Number: "WB-0001", IssuedAt: At, CreatedAt: At},
		},
		LogEntries: []models.LogEntry{
			{ID: "lg-1", UserID: "us-1", Action: "LOGIN", CreatedAt: At},
			{ID: "lg-2", UserID: "us-2", ShipmentID: ptr("sh-1"), Action: "SHIPMENT_CREATED", Details: "CD0001", CreatedAt: At},
		},
		ExportDate: At,
		Version:    snapshot.Version,
	}
}

// Empty returns a snapshot with every collection present and empty.
func Empty() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Users:             []models.User{},
		Branches:          []models.Branch{},
		Countries:         []models.Country{},
		ShipmentStatuses:  []models.ShipmentStatus{},
		Shipments:         []models.Shipment{},
		ShipmentHistories: []models.ShipmentHistory{},
		TrackingEvents:    []models.TrackingEvent{},
		Invoices:          []models.Invoice{},
		Waybills:          []models.Waybill{},
		LogEntries:        []models.LogEntry{},
		ExportDate:        At,
		Version:           snapshot.Version,
	}
}
