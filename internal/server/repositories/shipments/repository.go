package shipments

import (
	"context"
	"time"
)

// Repository holds the single-row shipment operations used by the bulk
// status update.
type Repository interface {
	StatusExists(ctx context.Context, statusID string) (bool, error)
	UpdateStatus(ctx context.Context, shipmentID, statusID string, at time.Time) error
}
