package entities

import (
	"database/sql"

	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

// Table maps an entity type onto its SQL table. Columns, Values and Scan
// must list the same columns in the same order; the first column is the
// primary key.
type Table[T any] struct {
	Kind    schema.Kind
	Name    string
	Columns []string
	// Values returns the bind arguments for inserting row.
	Values func(row *T) []any
	// Scan returns destinations for reading a row into row.
	Scan func(row *T) []any
	// Normalize, when set, is applied to every scanned row.
	Normalize func(row *T)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
