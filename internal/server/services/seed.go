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
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type SeedOptions struct {
	ManagerEmail    string
	ManagerPassword string
}

// SeedResult carries the ids of the created records.
type SeedResult struct {
	ManagerID  string
	BranchID   string
	ShipmentID string
}

type SeedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	kinds       map[schema.Kind]kindOps
	logger      logging.Logger
}

func NewSeedService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SeedService {
	return &SeedService{db: db, repomanager: m, kinds: registry(m), logger: logger.With("module", "seed")}
}

// Seed creates a minimal working data set: one branch, country, status,
// manager and shipment. It refuses to touch a store that already has data.
func (s *SeedService) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.ManagerEmail == "" || opts.ManagerPassword == "" {
		return nil, fmt.Errorf("manager email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.ManagerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := timex.Now()
	branch := models.Branch{ID: uuid.NewString(), Name: "Head Office", Code: "HQ", IsActive: true, CreatedAt: now, UpdatedAt: now}
	country := models.Country{ID: uuid.NewString(), Name: "Default", Code: "XX", Type: models.CountryBoth, CreatedAt: now, UpdatedAt: now}
	status := models.ShipmentStatus{ID: uuid.NewString(), Name: "Received", Code: "RECEIVED", Color: "#6b7280", SortOrder: 1, CreatedAt: now, UpdatedAt: now}
	manager := models.User{
		ID: uuid.NewString(), Email: opts.ManagerEmail, Name: "Manager", PasswordHash: string(hash),
		Role: models.RoleManager, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	shipment := models.Shipment{
		ID: uuid.NewString(), TrackingNumber: "CD" + now.Format("20060102") + "0001",
		BranchID: branch.ID, CreatedByID: manager.ID, StatusID: status.ID,
		OriginCountryID: country.ID, DestinationCountryID: country.ID,
		Weight: decimal.NewFromInt(1), DeclaredValue: decimal.Zero,
		CreatedAt: now, UpdatedAt: now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range schema.Store.Kinds() {
			n, err := s.kinds[k].count(ctx, tx)
			if err != nil {
				return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
			}
			if n > 0 {
				return common.ErrStoreNotEmpty
			}
		}

		if _, err := s.repomanager.Branches(tx).InsertBulk(ctx, []models.Branch{branch}); err != nil {
			return err
		}
		if _, err := s.repomanager.Countries(tx).InsertBulk(ctx, []models.Country{country}); err != nil {
			return err
		}
		if _, err := s.repomanager.ShipmentStatuses(tx).InsertBulk(ctx, []models.ShipmentStatus{status}); err != nil {
			return err
		}
		if _, err := s.repomanager.Users(tx).InsertBulk(ctx, []models.User{manager}); err != nil {
			return err
		}
		_, err := s.repomanager.Shipments(tx).InsertBulk(ctx, []models.Shipment{shipment})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "store seeded", "manager_id", manager.ID)
	return &SeedResult{ManagerID: manager.ID, BranchID: branch.ID, ShipmentID: shipment.ID}, nil
}
