// Package pricing re-derives unit prices and subtotals of quotation line items from
// current catalog data.
package pricing

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/metrics"
	"github.com/facilpersianas/blindquote/internal/variant"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

const defaultWorkers = 8

// VariantFetcher returns the variant families of a set of catalog product ids
// in a single round trip.
type VariantFetcher interface {
	FetchVariants(ctx context.Context, productIDs []string) ([]domain.FamilyVariants, error)
}

// Service re-prices line items
type Service struct {
	fetcher VariantFetcher
	logger  *zap.Logger
	workers int
	match   func(candidates []domain.NormalizedVariant, widthCm, heightCm float64) (domain.NormalizedVariant, bool)
}

// NewService creates a pricing service. workers bounds per-item parallelism.
func NewService(fetcher VariantFetcher, logger *zap.Logger, workers int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Service{
		fetcher: fetcher,
		logger:  logger,
		workers: workers,
		match:   variant.Match,
	}
}

// UpdatePrices prices every active item against one catalog fetch and returns a new
// list in input order. Items without a family, without a catalog match or without a
// fitting variant are returned unchanged. Only a validation failure (no active items)
// or a catalog transport failure is returned as an error; in both cases the returned
// list equals the input.
func (s *Service) UpdatePrices(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}

	// positions into out; ids are not required to be unique or set
	var active []domain.LineItem
	var positions []int
	for i, item := range out {
		if item.IsActive() {
			active = append(active, item)
			positions = append(positions, i)
		}
	}
	if len(active) == 0 {
		return out, &errors.ErrValidation{Message: "nothing to price: no line item has a product selected"}
	}

	ids := DistinctProductIDs(active)
	if len(ids) == 0 {
		s.logger.Warn("No product ids on active items, nothing to fetch", zap.Int("active_items", len(active)))
		return out, nil
	}

	s.logger.Info("Updating prices",
		zap.Int("items", len(items)),
		zap.Int("active_items", len(active)),
		zap.Strings("product_ids", ids),
	)

	families, err := s.fetcher.FetchVariants(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to fetch catalog variants", zap.Error(err), zap.Int("product_ids", len(ids)))
		var te *errors.ErrTransport
		if stderrors.As(err, &te) {
			return out, err
		}
		return out, &errors.ErrTransport{Op: "fetch catalog variants", Err: err}
	}

	byTitle := make(map[string]domain.FamilyVariants, len(families))
	for _, f := range families {
		if _, dup := byTitle[f.Title]; dup {
			s.logger.Warn("Duplicate family title in catalog response, keeping the first", zap.String("title", f.Title))
			continue
		}
		byTitle[f.Title] = f
	}

	priced := make([]domain.LineItem, len(active))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, item := range active {
		g.Go(func() error {
			priced[i] = s.priceItem(item, byTitle)
			return nil
		})
	}
	_ = g.Wait()

	updated := 0
	for i, item := range priced {
		out[positions[i]] = item
		if item.SelectedVariant != nil {
			updated++
		}
	}

	s.logger.Info("Prices updated", zap.Int("active_items", len(active)), zap.Int("priced_items", updated))
	return out, nil
}

// priceItem never panics; any failure leaves the item as it was.
func (s *Service) priceItem(item domain.LineItem, families map[string]domain.FamilyVariants) (result domain.LineItem) {
	logger := s.logger.With(zap.String("item_id", item.ID), zap.String("name", item.Name))
	result = item
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered while pricing item, leaving it unchanged", zap.Any("panic", r))
			metrics.PricingItems.WithLabelValues(metrics.OutcomeError).Inc()
			result = item
		}
	}()

	if item.Name == "" {
		logger.Debug("Item has no family name, skipping")
		metrics.PricingItems.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return item
	}

	family, ok := families[item.Name]
	if !ok {
		logger.Warn("Family not found in catalog response")
		metrics.PricingItems.WithLabelValues(metrics.OutcomeNoFamily).Inc()
		return item
	}

	options, candidates := s.normalizeFamily(family, logger)
	selected, ok := s.match(candidates, item.Width, item.Height)
	if !ok {
		logger.Warn("No variant large enough for requested size",
			zap.Float64("width_cm", item.Width),
			zap.Float64("height_cm", item.Height),
			zap.Int("candidates", len(candidates)),
		)
		metrics.PricingItems.WithLabelValues(metrics.OutcomeNoFit).Inc()
		return item
	}

	logger.Debug("Variant selected",
		zap.String("sku", selected.SKU),
		zap.String("dimensions", fmt.Sprintf("%dx%dmm", selected.Length, selected.Height)),
		zap.Float64("price", selected.Price),
	)
	metrics.PricingItems.WithLabelValues(metrics.OutcomeMatched).Inc()
	return item.WithVariant(selected, options)
}

// normalizeFamily returns every normalized variant (malformed ones as zero placeholders)
// and the subset that parsed cleanly, which is what gets matched.
func (s *Service) normalizeFamily(family domain.FamilyVariants, logger *zap.Logger) (options, candidates []domain.NormalizedVariant) {
	options = make([]domain.NormalizedVariant, 0, len(family.Variants))
	candidates = make([]domain.NormalizedVariant, 0, len(family.Variants))
	for _, raw := range family.Variants {
		v, err := variant.Normalize(raw)
		if err != nil {
			logger.Warn("Malformed catalog variant replaced by placeholder",
				zap.String("variant_id", raw.ID),
				zap.String("sku", raw.SKU),
				zap.Error(err),
			)
			metrics.MalformedVariants.Inc()
			options = append(options, domain.NormalizedVariant{})
			continue
		}
		options = append(options, v)
		candidates = append(candidates, v)
	}
	return options, candidates
}

// DistinctProductIDs returns the union of the items' product ids in first-seen order
func DistinctProductIDs(items []domain.LineItem) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, item := range items {
		for _, id := range item.ProductIDs {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
