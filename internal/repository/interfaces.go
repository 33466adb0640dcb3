package repository

import (
	"context"

	"github.com/facilpersianas/blindquote/internal/domain"
)

// CatalogSnapshotRepository stores copies of the family list
type CatalogSnapshotRepository interface {
	Save(ctx context.Context, families []domain.ProductFamily) (*domain.CatalogSnapshot, error)
	GetLatest(ctx context.Context) (*domain.CatalogSnapshot, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.CatalogSnapshot, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	CatalogSnapshot CatalogSnapshotRepository
}
