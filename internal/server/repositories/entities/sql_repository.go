package entities

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

// maxRowsPerStatement caps a single multi-row INSERT independently of the
// driver's bind-parameter limit.
const maxRowsPerStatement = 1000

type SQLRepository[T any] struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	table   *Table[T]
}

func NewSQLRepository[T any](db dbx.DBTX, dialect dbx.Dialect, table *Table[T]) *SQLRepository[T] {
	return &SQLRepository[T]{db: db, dialect: dialect, table: table}
}

func (r *SQLRepository[T]) Kind() schema.Kind {
	return r.table.Kind
}

func (r *SQLRepository[T]) SelectAll(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(r.table.Columns, ", "), r.table.Name, r.table.Columns[0])

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(r.table.Scan(&item)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table.Name, err)
		}
		if r.table.Normalize != nil {
			r.table.Normalize(&item)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.table.Name).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository[T]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table.Name)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// InsertBulk writes rows with multi-row INSERT statements, splitting them so
// no statement exceeds the dialect's bind-parameter limit.
func (r *SQLRepository[T]) InsertBulk(ctx context.Context, rows []T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var total int64
	size := r.chunkSize()
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		query, args := r.insertStatement(rows[start:end])

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert %s: %w", r.table.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("db error: %w", err)
		}
		total += n
	}
	return total, nil
}

func (r *SQLRepository[T]) chunkSize() int {
	size := r.dialect.MaxParams / len(r.table.Columns)
	if size > maxRowsPerStatement {
		size = maxRowsPerStatement
	}
	if size < 1 {
		size = 1
	}
	return size
}

func (r *SQLRepository[T]) insertStatement(rows []T) (string, []any) {
	cols := len(r.table.Columns)

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(r.table.Name)
	b.WriteString(" (")
	b.WriteString(strings.Join(r.table.Columns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*cols)
	n := 1
	for i := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.dialect.Placeholder(n))
			n++
		}
		b.WriteByte(')')
		args = append(args, r.table.Values(&rows[i])...)
	}
	return b.String(), args
}
