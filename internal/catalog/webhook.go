package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/metrics"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

const (
	sourceWebhook  = "webhook"
	defaultTimeout = 30 * time.Second
)

// WebhookSource reads the catalog from the variants and products webhooks
type WebhookSource struct {
	variantsURL string
	productsURL string
	client      *resty.Client
	logger      *zap.Logger
}

// NewWebhookSource creates a webhook catalog source. A single request is made per call;
// retries are left to the caller.
func NewWebhookSource(variantsURL, productsURL string, timeout time.Duration, logger *zap.Logger) *WebhookSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &WebhookSource{
		variantsURL: variantsURL,
		productsURL: productsURL,
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

// FetchVariants posts the product ids and returns the variant families of the response
func (s *WebhookSource) FetchVariants(ctx context.Context, productIDs []string) (families []domain.FamilyVariants, err error) {
	const op = "fetch catalog variants"
	start := time.Now()
	defer func() { metrics.ObserveCatalogFetch(sourceWebhook, start, err) }()

	if s.variantsURL == "" {
		return nil, &errors.ErrTransport{Op: op, Err: errNotConfigured("CATALOG_VARIANTS_URL")}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"ids": productIDs}).
		Post(s.variantsURL)
	if err != nil {
		s.logger.Warn("Variants webhook request failed", zap.Error(err), zap.Int("product_ids", len(productIDs)))
		return nil, &errors.ErrTransport{Op: op, Err: err}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		s.logger.Warn("Variants webhook returned non-2xx",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 512)),
		)
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode()}
	}

	families, err = ParseVariantsResponse(resp.Body())
	if err != nil {
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode(), Err: err}
	}
	s.logger.Debug("Variants fetched", zap.Int("families", len(families)))
	return families, nil
}

// FetchFamilies loads every product family. Invalid product nodes are logged and skipped.
func (s *WebhookSource) FetchFamilies(ctx context.Context) (families []domain.ProductFamily, err error) {
	const op = "fetch catalog families"
	start := time.Now()
	defer func() { metrics.ObserveCatalogFetch(sourceWebhook, start, err) }()

	if s.productsURL == "" {
		return nil, &errors.ErrTransport{Op: op, Err: errNotConfigured("CATALOG_PRODUCTS_URL")}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.productsURL)
	if err != nil {
		s.logger.Warn("Products webhook request failed", zap.Error(err))
		return nil, &errors.ErrTransport{Op: op, Err: err}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		s.logger.Warn("Products webhook returned non-2xx", zap.Int("status", resp.StatusCode()))
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode()}
	}

	families, skipped, err := ParseFamilies(resp.Body())
	if err != nil {
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode(), Err: err}
	}
	for _, e := range skipped {
		s.logger.Warn("Invalid product node skipped", zap.Error(e))
	}
	s.logger.Debug("Families fetched", zap.Int("families", len(families)), zap.Int("skipped", len(skipped)))
	return families, nil
}

type errNotConfigured string

func (e errNotConfigured) Error() string {
	return string(e) + " not set"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
