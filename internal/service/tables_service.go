package service

import (
	"context"

	"tripmate/internal/apperr"
	"tripmate/internal/repository"
)

type TablesService interface {
	// CountTables reports how many application tables exist in the public schema.
	CountTables(ctx context.Context) (int, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) CountTables(ctx context.Context) (int, error) {
	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return 0, apperr.Internal("tables.count", err)
	}

	return countTables, nil
}
