package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/catalog"
	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/metrics"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

const (
	sourceShopify    = "shopify"
	defaultNamespace = "custom"
	familyPageSize   = 50
	maxFamilyPages   = 100
)

type metafield struct {
	Value *string `json:"value"`
}

func (m *metafield) raw() domain.RawValue {
	if m == nil || m.Value == nil {
		return domain.RawValue{}
	}
	return domain.NewRawValue(*m.Value)
}

func (m *metafield) text() string {
	if m == nil || m.Value == nil {
		return ""
	}
	return *m.Value
}

type variantNode struct {
	ID                 string     `json:"id"`
	SKU                string     `json:"sku"`
	Price              string     `json:"price"`
	Length             *metafield `json:"length"`
	Height             *metafield `json:"height"`
	TimeToShip         *metafield `json:"timeToShip"`
	TotalPackageLength *metafield `json:"totalPackageLength"`
	PackageWidth       *metafield `json:"packageWidth"`
	PackageHeight      *metafield `json:"packageHeight"`
	SKUBase            *metafield `json:"skuBase"`
}

func (n variantNode) toDomain() domain.Variant {
	return domain.Variant{
		ID:                 n.ID,
		SKU:                n.SKU,
		Price:              domain.NewRawValue(n.Price),
		Length:             n.Length.raw(),
		Height:             n.Height.raw(),
		TimeToShip:         n.TimeToShip.raw(),
		TotalPackageLength: n.TotalPackageLength.raw(),
		PackageWidth:       n.PackageWidth.raw(),
		PackageHeight:      n.PackageHeight.raw(),
		SKUBase:            n.SKUBase.text(),
	}
}

type variantsData struct {
	Nodes []*struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Variants struct {
			Edges []struct {
				Node variantNode `json:"node"`
			} `json:"edges"`
		} `json:"variants"`
	} `json:"nodes"`
}

type familyNode struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	ProductType     string     `json:"productType"`
	IDProductsAll   *metafield `json:"idProductsAll"`
	IDPrincipal     *metafield `json:"idPrincipal"`
	IDSecundaria    *metafield `json:"idSecundaria"`
	LarguraMinima   *metafield `json:"larguraMinima"`
	LarguraMaxima   *metafield `json:"larguraMaxima"`
	AlturaMinima    *metafield `json:"alturaMinima"`
	AlturaMaxima    *metafield `json:"alturaMaxima"`
	MovementControl *metafield `json:"movementControl"`
}

func (n familyNode) record() catalog.FamilyRecord {
	rec := catalog.FamilyRecord{
		Title:               n.Title,
		ProductIDsAll:       parseIDList(n.IDProductsAll.text()),
		PrimaryProductIDs:   parseIDList(n.IDPrincipal.text()),
		SecondaryProductIDs: parseIDList(n.IDSecundaria.text()),
		ProductType:         n.ProductType,
	}
	if len(rec.ProductIDsAll) == 0 && len(rec.PrimaryProductIDs) == 0 && n.ID != "" {
		rec.PrimaryProductIDs = []string{n.ID}
	}
	for _, b := range []struct {
		dst **domain.RawValue
		src *metafield
	}{
		{&rec.MinWidth, n.LarguraMinima},
		{&rec.MaxWidth, n.LarguraMaxima},
		{&rec.MinHeight, n.AlturaMinima},
		{&rec.MaxHeight, n.AlturaMaxima},
	} {
		if v := b.src.raw(); v.Set {
			*b.dst = &v
		}
	}
	if mc := n.MovementControl.text(); mc != "" {
		rec.MovementControl = &mc
	}
	return rec
}

type familiesData struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node familyNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// CatalogSource reads families and variants straight from the Shopify Admin API, with
// sizes stored as product and variant metafields
type CatalogSource struct {
	client       *Client
	namespace    string
	productQuery string
	logger       *zap.Logger
}

// NewCatalogSource creates a catalog source on top of client. productQuery is an optional
// Shopify search filter for family products (e.g. "product_type:Persiana").
func NewCatalogSource(client *Client, namespace, productQuery string, logger *zap.Logger) *CatalogSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CatalogSource{
		client:       client,
		namespace:    namespace,
		productQuery: productQuery,
		logger:       logger,
	}
}

// FetchVariants resolves the products in one nodes(ids:) query
func (s *CatalogSource) FetchVariants(ctx context.Context, productIDs []string) (families []domain.FamilyVariants, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCatalogFetch(sourceShopify, start, err) }()

	gids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		gids = append(gids, ProductGID(id))
	}

	resp, err := s.client.Execute(ctx, VariantsByProductIDsQuery, map[string]interface{}{
		"ids":       gids,
		"namespace": s.namespace,
	})
	if err != nil {
		return nil, err
	}

	var data variantsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, &errors.ErrTransport{Op: "fetch catalog variants", Err: fmt.Errorf("decode nodes: %w", err)}
	}

	families = make([]domain.FamilyVariants, 0, len(data.Nodes))
	for i, node := range data.Nodes {
		if node == nil {
			// nodes come back in request order, null for unknown ids
			if i < len(gids) {
				s.logger.Warn("Product not found in Shopify", zap.String("product_id", gids[i]))
			}
			continue
		}
		fv := domain.FamilyVariants{Title: node.Title, Variants: make([]domain.Variant, 0, len(node.Variants.Edges))}
		for _, edge := range node.Variants.Edges {
			fv.Variants = append(fv.Variants, edge.Node.toDomain())
		}
		families = append(families, fv)
	}
	return families, nil
}

// FetchFamilies pages through every family product
func (s *CatalogSource) FetchFamilies(ctx context.Context) (families []domain.ProductFamily, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCatalogFetch(sourceShopify, start, err) }()

	vars := map[string]interface{}{
		"first":     familyPageSize,
		"namespace": s.namespace,
	}
	if s.productQuery != "" {
		vars["query"] = s.productQuery
	}

	for page := 0; page < maxFamilyPages; page++ {
		resp, err := s.client.Execute(ctx, FamilyProductsQuery, vars)
		if err != nil {
			return nil, err
		}
		var data familiesData
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return nil, &errors.ErrTransport{Op: "fetch catalog families", Err: fmt.Errorf("decode products: %w", err)}
		}
		for _, edge := range data.Products.Edges {
			f, err := edge.Node.record().Family()
			if err != nil {
				s.logger.Warn("Invalid family product skipped", zap.String("product_id", edge.Node.ID), zap.Error(err))
				continue
			}
			families = append(families, f)
		}
		if !data.Products.PageInfo.HasNextPage || data.Products.PageInfo.EndCursor == "" {
			return families, nil
		}
		vars["after"] = data.Products.PageInfo.EndCursor
	}
	s.logger.Warn("Family product pagination stopped at page limit", zap.Int("pages", maxFamilyPages))
	return families, nil
}

// ProductGID adds the product namespace to a bare numeric id
func ProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return domain.ShopifyProductGIDPrefix + id
}

// parseIDList reads a list metafield (a JSON array of gids) or a single id
func parseIDList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	var ids []string
	if strings.HasPrefix(value, "[") {
		if err := json.Unmarshal([]byte(value), &ids); err == nil {
			return ids
		}
		return nil
	}
	return []string{value}
}
