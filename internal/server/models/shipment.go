package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Shipment struct {
	ID                   string          `json:"id" validate:"required"`
	TrackingNumber       string          `json:"trackingNumber" validate:"required"`
	BranchID             string          `json:"branchId" validate:"required"`
	CreatedByID          string          `json:"createdById" validate:"required"`
	StatusID             string          `json:"statusId" validate:"required"`
	OriginCountryID      string          `json:"originCountryId" validate:"required"`
	DestinationCountryID string          `json:"destinationCountryId" validate:"required"`
	SenderName           string          `json:"senderName"`
	SenderPhone          string          `json:"senderPhone"`
	ReceiverName         string          `json:"receiverName"`
	ReceiverPhone        string          `json:"receiverPhone"`
	ReceiverAddress      string          `json:"receiverAddress"`
	Weight               decimal.Decimal `json:"weight"`
	DeclaredValue        decimal.Decimal `json:"declaredValue"`
	Notes                string          `json:"notes"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`

	// Display copies, filled on export and ignored on restore.
	Branch             *BranchRef  `json:"branch,omitempty" validate:"-"`
	CreatedBy          *UserRef    `json:"createdBy,omitempty" validate:"-"`
	Status             *StatusRef  `json:"status,omitempty" validate:"-"`
	OriginCountry      *CountryRef `json:"originCountry,omitempty" validate:"-"`
	DestinationCountry *CountryRef `json:"destinationCountry,omitempty" validate:"-"`
}

// ShipmentHistory records one status transition of a shipment.
type ShipmentHistory struct {
	ID         string    `json:"id" validate:"required"`
	ShipmentID string    `json:"shipmentId" validate:"required"`
	UserID     string    `json:"userId" validate:"required"`
	StatusID   string    `json:"statusId" validate:"required"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TrackingEvent is a customer-visible tracking entry.
type TrackingEvent struct {
	ID          string    `json:"id" validate:"required"`
	ShipmentID  string    `json:"shipmentId" validate:"required"`
	UserID      string    `json:"userId" validate:"required"`
	StatusID    string    `json:"statusId" validate:"required"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Invoice struct {
	ID         string          `json:"id" validate:"required"`
	ShipmentID string          `json:"shipmentId" validate:"required"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	IssuedAt   time.Time       `json:"issuedAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Waybill struct {
	ID         string    `json:"id" validate:"required"`
	ShipmentID string    `json:"shipmentId" validate:"required"`
	Number     string    `json:"number"`
	IssuedAt   time.Time `json:"issuedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LogEntry is an audit record of a user action, optionally about a shipment.
type LogEntry struct {
	ID         string    `json:"id" validate:"required"`
	UserID     string    `json:"userId" validate:"required"`
	ShipmentID *string   `json:"shipmentId"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}
