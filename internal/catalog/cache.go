package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

const defaultCacheTTL = 10 * time.Minute

// FamilyLoader loads the full family list
type FamilyLoader interface {
	FetchFamilies(ctx context.Context) ([]domain.ProductFamily, error)
}

// SnapshotStore persists family lists so they survive upstream outages and restarts
type SnapshotStore interface {
	Save(ctx context.Context, families []domain.ProductFamily) (*domain.CatalogSnapshot, error)
	GetLatest(ctx context.Context) (*domain.CatalogSnapshot, error)
}

// Cache holds the family list for a TTL. Loads are serialized.
type Cache struct {
	loader FamilyLoader
	store  SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	families []domain.ProductFamily
	loadedAt time.Time
	fresh    bool
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithSnapshotStore saves every successful load and serves the latest snapshot when
// the loader fails on a cold cache.
func WithSnapshotStore(store SnapshotStore) CacheOption {
	return func(c *Cache) { c.store = store }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a family cache around loader
func NewCache(loader FamilyLoader, ttl time.Duration, logger *zap.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c := &Cache{
		loader: loader,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Families returns the cached list, loading it when missing or expired. When the load
// fails the previous list (or the latest stored snapshot) is served instead.
func (c *Cache) Families(ctx context.Context) ([]domain.ProductFamily, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fresh && c.now().Sub(c.loadedAt) < c.ttl {
		return cloneFamilies(c.families), nil
	}

	err := c.loadLocked(ctx)
	if err == nil {
		return cloneFamilies(c.families), nil
	}
	if c.families != nil {
		c.logger.Warn("Catalog load failed, serving stale families",
			zap.Error(err),
			zap.Time("loaded_at", c.loadedAt),
		)
		return cloneFamilies(c.families), nil
	}
	if families, ok := c.latestSnapshotLocked(ctx); ok {
		return families, nil
	}
	return nil, err
}

// Family returns the family with the exact title
func (c *Cache) Family(ctx context.Context, title string) (domain.ProductFamily, error) {
	families, err := c.Families(ctx)
	if err != nil {
		return domain.ProductFamily{}, err
	}
	for _, f := range families {
		if f.Title == title {
			return f, nil
		}
	}
	return domain.ProductFamily{}, &errors.ErrNotFound{Resource: "product family", ID: title}
}

// Invalidate marks the cached list expired. It is kept as a fallback for the next load.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.fresh = false
	c.mu.Unlock()
}

// Refresh reloads the list now. On failure the cached list is left untouched.
func (c *Cache) Refresh(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadLocked(ctx); err != nil {
		return 0, err
	}
	return len(c.families), nil
}

func (c *Cache) loadLocked(ctx context.Context) error {
	families, err := c.loader.FetchFamilies(ctx)
	if err != nil {
		return err
	}
	c.families = families
	c.loadedAt = c.now()
	c.fresh = true
	c.logger.Info("Catalog families loaded", zap.Int("families", len(families)))

	if c.store != nil {
		snap, err := c.store.Save(ctx, families)
		if err != nil {
			c.logger.Warn("Failed to save catalog snapshot", zap.Error(err))
		} else {
			c.logger.Debug("Catalog snapshot saved", zap.String("snapshot_id", snap.ID.String()))
		}
	}
	return nil
}

// latestSnapshotLocked seeds the cache from the store without marking it fresh,
// so the next call tries the loader again.
func (c *Cache) latestSnapshotLocked(ctx context.Context) ([]domain.ProductFamily, bool) {
	if c.store == nil {
		return nil, false
	}
	snap, err := c.store.GetLatest(ctx)
	if err != nil {
		var nf *errors.ErrNotFound
		if !stderrors.As(err, &nf) {
			c.logger.Warn("Failed to read catalog snapshot", zap.Error(err))
		}
		return nil, false
	}
	c.logger.Warn("Catalog unavailable, serving stored snapshot",
		zap.String("snapshot_id", snap.ID.String()),
		zap.Time("snapshot_created_at", snap.CreatedAt),
	)
	c.families = snap.Families
	c.loadedAt = snap.CreatedAt
	return cloneFamilies(snap.Families), true
}

func cloneFamilies(in []domain.ProductFamily) []domain.ProductFamily {
	out := make([]domain.ProductFamily, len(in))
	for i, f := range in {
		f.ProductIDs = append([]string(nil), f.ProductIDs...)
		if f.MovementControl != nil {
			mc := *f.MovementControl
			f.MovementControl = &mc
		}
		out[i] = f
	}
	return out
}
