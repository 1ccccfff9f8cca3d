package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
	"github.com/google/uuid"
)

type BulkStatusUpdate struct {
	ShipmentIDs []string `json:"shipmentIds" binding:"required,min=1,dive,required"`
	StatusID    string   `json:"statusId" binding:"required"`
	Notes       string   `json:"notes"`
	Location    string   `json:"location"`
	// UserID is the acting user, taken from the access token.
	UserID string `json:"-"`
}

type BulkStatusResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

type ShipmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewShipmentService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ShipmentService {
	return &ShipmentService{db: db, repomanager: m, logger: logger.With("module", "shipments")}
}

// BulkUpdateStatus moves each shipment to the target status in its own
// transaction, recording a history row and a tracking event. A failing
// shipment does not stop the others.
func (s *ShipmentService) BulkUpdateStatus(ctx context.Context, req BulkStatusUpdate) (*BulkStatusResult, error) {
	exists, err := s.repomanager.ShipmentOps(s.db).StatusExists(ctx, req.StatusID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	if !exists {
		return nil, fmt.Errorf("status %s: %w", req.StatusID, common.ErrorNotFound)
	}

	res := &BulkStatusResult{Updated: []string{}, Failed: map[string]string{}}
	for _, id := range req.ShipmentIDs {
		if err := s.updateOne(ctx, id, req); err != nil {
			s.logger.Warn(ctx, "status update failed", "shipment_id", id, "error", err)
			res.Failed[id] = err.Error()
			continue
		}
		res.Updated = append(res.Updated, id)
	}

	s.logger.Info(ctx, "bulk status update", "status_id", req.StatusID,
		"updated", len(res.Updated), "failed", len(res.Failed))
	return res, nil
}

func (s *ShipmentService) updateOne(ctx context.Context, shipmentID string, req BulkStatusUpdate) error {
	now := timex.Now()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.ShipmentOps(tx).UpdateStatus(ctx, shipmentID, req.StatusID, now); err != nil {
			return err
		}

		history := models.ShipmentHistory{
			ID:         uuid.NewString(),
			ShipmentID: shipmentID,
			UserID:     req.UserID,
			StatusID:   req.StatusID,
			Notes:      req.Notes,
			CreatedAt:  now,
		}
		if _, err := s.repomanager.ShipmentHistories(tx).InsertBulk(ctx, []models.ShipmentHistory{history}); err != nil {
			return err
		}

		event := models.TrackingEvent{
			ID:          uuid.NewString(),
			ShipmentID:  shipmentID,
			UserID:      req.UserID,
			StatusID:    req.StatusID,
			Location:    req.Location,
			Description: req.Notes,
			OccurredAt:  now,
			CreatedAt:   now,
		}
		_, err := s.repomanager.TrackingEvents(tx).InsertBulk(ctx, []models.TrackingEvent{event})
		return err
	})
}
