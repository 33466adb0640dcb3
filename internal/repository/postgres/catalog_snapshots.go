package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

// snapshotsRetained bounds the catalog_snapshots table
const snapshotsRetained = 20

type catalogSnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogSnapshotRepository creates a new catalog snapshot repository
func NewCatalogSnapshotRepository(db *sql.DB, logger *zap.Logger) *catalogSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogSnapshotRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a snapshot and prunes all but the most recent ones in the same transaction
func (r *catalogSnapshotRepository) Save(ctx context.Context, families []domain.ProductFamily) (*domain.CatalogSnapshot, error) {
	payload, err := json.Marshal(families)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal families: %w", err)
	}

	snap := &domain.CatalogSnapshot{
		ID:        uuid.New(),
		Families:  families,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO catalog_snapshots (id, families, family_count, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, insert, snap.ID, string(payload), len(families), snap.CreatedAt); err != nil {
		r.logger.Error("Failed to insert catalog snapshot", zap.Error(err))
		return nil, err
	}

	prune := `
		DELETE FROM catalog_snapshots
		WHERE id NOT IN (
			SELECT id FROM catalog_snapshots ORDER BY created_at DESC LIMIT $1
		)
	`
	if _, err := tx.ExecContext(ctx, prune, snapshotsRetained); err != nil {
		r.logger.Error("Failed to prune catalog snapshots", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit catalog snapshot", zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func (r *catalogSnapshotRepository) GetLatest(ctx context.Context) (*domain.CatalogSnapshot, error) {
	query := `
		SELECT id, families, created_at
		FROM catalog_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`
	snap, err := scanSnapshot(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "catalog snapshot", ID: "latest"}
	}
	if err != nil {
		r.logger.Error("Failed to get latest catalog snapshot", zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func (r *catalogSnapshotRepository) ListRecent(ctx context.Context, limit int) ([]*domain.CatalogSnapshot, error) {
	if limit <= 0 {
		limit = snapshotsRetained
	}
	query := `
		SELECT id, families, created_at
		FROM catalog_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list catalog snapshots", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var snaps []*domain.CatalogSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*domain.CatalogSnapshot, error) {
	var snap domain.CatalogSnapshot
	var payload []byte
	if err := row.Scan(&snap.ID, &payload, &snap.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &snap.Families); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snap.ID, err)
	}
	return &snap, nil
}
