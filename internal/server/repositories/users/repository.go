package users

import (
	"context"

	"github.com/dmitrijs2005/cargodesk/internal/server/models"
)

// Repository looks up single user accounts.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
