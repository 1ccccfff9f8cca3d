package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/entities"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// GetUserByEmail returns the user with the given e-mail, or
// common.ErrorNotFound.
func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	t := entities.UserTable
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = %s",
		strings.Join(t.Columns, ", "), t.Name, r.dialect.Placeholder(1))

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(t.Scan(user)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if t.Normalize != nil {
		t.Normalize(user)
	}

	return user, nil
}
