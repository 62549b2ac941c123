package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type tablesRepository struct {
	db sqlx.QueryerContext
}

func NewTablesRepository(db sqlx.QueryerContext) TablesRepository {
	return &tablesRepository{db: db}
}

// CountTablesDB counts the tables of the public schema; used by the health endpoint.
func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	var count int

	err := sqlx.GetContext(ctx, r.db, &count, `
			SELECT COUNT(*)
			FROM information_schema.tables
			WHERE table_schema = 'public'
		`)

	if err != nil {
		return 0, fmt.Errorf("count database tables: %w", err)
	}

	return count, nil
}
