// Package entities implements the bulk repositories used by backup and
// restore. A single generic SQL repository is parameterised by a Table
// descriptor per entity kind.
package entities

import (
	"context"

	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

// Repository reads and replaces every row of one entity kind.
type Repository[T any] interface {
	// Kind reports the entity kind served by the repository.
	Kind() schema.Kind
	// SelectAll returns every row ordered by primary key.
	SelectAll(ctx context.Context) ([]T, error)
	// Count returns the number of rows.
	Count(ctx context.Context) (int, error)
	// DeleteAll removes every row and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
	// InsertBulk inserts rows as given, primary keys included.
	InsertBulk(ctx context.Context, rows []T) (int64, error)
}
