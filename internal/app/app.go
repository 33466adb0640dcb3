// Package app wires configuration into the catalog, pricing and order components
// shared by the server and the command line tools.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/catalog"
	"github.com/facilpersianas/blindquote/internal/config"
	"github.com/facilpersianas/blindquote/internal/order"
	"github.com/facilpersianas/blindquote/internal/pricing"
	"github.com/facilpersianas/blindquote/internal/repository"
	"github.com/facilpersianas/blindquote/internal/repository/postgres"
	"github.com/facilpersianas/blindquote/internal/shopify"
)

// catalogSource is what every catalog backend provides
type catalogSource interface {
	catalog.VariantFetcher
	catalog.FamilyLoader
}

// Components are the wired services
type Components struct {
	Catalog   *catalog.Cache
	Breaker   *catalog.BreakerFetcher
	Pricing   *pricing.Service
	Orders    *order.Client
	Snapshots repository.CatalogSnapshotRepository // nil without a database
	database  *sql.DB
}

// NewLogger builds the production or development logger at the configured level
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}

// Build wires the catalog source, the family cache, the pricing service and the
// order draft client. The snapshot store is attached only when a database is configured.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	source := newCatalogSource(cfg, logger)
	breaker := catalog.NewBreakerFetcher(source, catalog.DefaultBreakerSettings, logger)

	c := &Components{Breaker: breaker}

	var opts []catalog.CacheOption
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repos := postgres.NewRepositories(db, logger)
		opts = append(opts, catalog.WithSnapshotStore(repos.CatalogSnapshot))
		c.Snapshots = repos.CatalogSnapshot
		c.database = db
		logger.Info("Catalog snapshots enabled", zap.String("database", cfg.Database.DBName))
	}

	c.Catalog = catalog.NewCache(source, cfg.Catalog.CacheTTL, logger, opts...)
	c.Pricing = pricing.NewService(breaker, logger, cfg.Pricing.Workers)
	c.Orders = order.NewClient(cfg.OrderDraft.WebhookURL, cfg.OrderDraft.AdminURL, cfg.OrderDraft.Timeout, logger)
	return c, nil
}

// Close releases the database connection, if any
func (c *Components) Close() error {
	if c.database == nil {
		return nil
	}
	return c.database.Close()
}

func newCatalogSource(cfg *config.Config, logger *zap.Logger) catalogSource {
	if cfg.Catalog.Source == config.SourceShopify {
		client := shopify.NewClient(cfg.Shopify, logger, shopify.WithTimeout(cfg.Catalog.Timeout))
		logger.Info("Using Shopify catalog source", zap.String("shop", cfg.Shopify.ShopDomain))
		return shopify.NewCatalogSource(client, cfg.Shopify.MetafieldNamespace, cfg.Shopify.ProductQuery, logger)
	}
	logger.Info("Using webhook catalog source", zap.String("variants_url", cfg.Catalog.VariantsURL))
	return catalog.NewWebhookSource(cfg.Catalog.VariantsURL, cfg.Catalog.ProductsURL, cfg.Catalog.Timeout, logger)
}
