package shipments

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) StatusExists(ctx context.Context, statusID string) (bool, error) {
	query := "SELECT COUNT(*) FROM shipment_statuses WHERE id = " + r.dialect.Placeholder(1)

	var n int
	if err := r.db.QueryRowContext(ctx, query, statusID).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// UpdateStatus moves a shipment to statusID. A missing shipment yields
// common.ErrorNotFound.
func (r *SQLRepository) UpdateStatus(ctx context.Context, shipmentID, statusID string, at time.Time) error {
	query := fmt.Sprintf("UPDATE shipments SET status_id = %s, updated_at = %s WHERE id = %s",
		r.dialect.Placeholder(1), r.dialect.Placeholder(2), r.dialect.Placeholder(3))

	res, err := r.db.ExecContext(ctx, query, statusID, timex.Normalize(at), shipmentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
