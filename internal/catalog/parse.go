// Package catalog loads product families and their variants from the catalog webhooks
// and keeps the family list cached for the quotation flow.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/facilpersianas/blindquote/internal/dimension"
	"github.com/facilpersianas/blindquote/internal/domain"
)

// variantsEnvelope is one element of the variants webhook response
type variantsEnvelope struct {
	Node struct {
		Title    string `json:"title"`
		Variants struct {
			Edges []struct {
				Node domain.Variant `json:"node"`
			} `json:"edges"`
		} `json:"variants"`
	} `json:"node"`
}

// ParseVariantsResponse decodes the variants webhook body. The body must be a JSON array.
func ParseVariantsResponse(body []byte) ([]domain.FamilyVariants, error) {
	if !isArray(body) {
		return nil, fmt.Errorf("expected a JSON array of families")
	}
	var envelopes []variantsEnvelope
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, fmt.Errorf("decode variants response: %w", err)
	}
	out := make([]domain.FamilyVariants, 0, len(envelopes))
	for _, e := range envelopes {
		fv := domain.FamilyVariants{
			Title:    e.Node.Title,
			Variants: make([]domain.Variant, 0, len(e.Node.Variants.Edges)),
		}
		for _, edge := range e.Node.Variants.Edges {
			fv.Variants = append(fv.Variants, edge.Node)
		}
		out = append(out, fv)
	}
	return out, nil
}

// FamilyRecord is a product node of the families webhook. Bounds are in mm.
type FamilyRecord struct {
	Title               string           `json:"title"`
	ProductIDsAll       []string         `json:"id_products_all"`
	PrimaryProductIDs   []string         `json:"id_persiana_principal"`
	SecondaryProductIDs []string         `json:"id_persiana_secundaria"`
	MinWidth            *domain.RawValue `json:"larguraMinima"`
	MaxWidth            *domain.RawValue `json:"larguraMaxima"`
	MinHeight           *domain.RawValue `json:"alturaMinima"`
	MaxHeight           *domain.RawValue `json:"alturaMaxima"`
	MovementControl     *string          `json:"movementControl"`
	ProductType         string           `json:"product_type"`
}

// Family converts the record to a ProductFamily with cm bounds
func (r FamilyRecord) Family() (domain.ProductFamily, error) {
	if strings.TrimSpace(r.Title) == "" {
		return domain.ProductFamily{}, fmt.Errorf("missing title")
	}
	f := domain.ProductFamily{
		Title:       r.Title,
		ProductIDs:  r.productIDs(),
		ProductType: r.ProductType,
	}
	var err error
	if f.MinWidth, err = boundCm("larguraMinima", r.MinWidth); err != nil {
		return domain.ProductFamily{}, err
	}
	if f.MaxWidth, err = boundCm("larguraMaxima", r.MaxWidth); err != nil {
		return domain.ProductFamily{}, err
	}
	if f.MinHeight, err = boundCm("alturaMinima", r.MinHeight); err != nil {
		return domain.ProductFamily{}, err
	}
	if f.MaxHeight, err = boundCm("alturaMaxima", r.MaxHeight); err != nil {
		return domain.ProductFamily{}, err
	}
	if r.MovementControl != nil && strings.TrimSpace(*r.MovementControl) != "" {
		mc := *r.MovementControl
		f.MovementControl = &mc
	}
	return f, nil
}

func boundCm(name string, raw *domain.RawValue) (float64, error) {
	if raw == nil || !raw.Set {
		return 0, fmt.Errorf("missing %s", name)
	}
	cm := dimension.ParseMmToCm(raw.Value)
	if math.IsNaN(cm) || math.IsInf(cm, 0) {
		return 0, fmt.Errorf("%s is not a number: %q", name, raw.Value)
	}
	return cm, nil
}

func (r FamilyRecord) productIDs() []string {
	if len(r.ProductIDsAll) > 0 {
		ids := make([]string, 0, len(r.ProductIDsAll))
		for _, id := range r.ProductIDsAll {
			ids = append(ids, StripProductGID(id))
		}
		return ids
	}
	var ids []string
	if len(r.PrimaryProductIDs) > 0 && r.PrimaryProductIDs[0] != "" {
		ids = append(ids, StripProductGID(r.PrimaryProductIDs[0]))
	}
	for _, id := range r.SecondaryProductIDs {
		if id != "" {
			ids = append(ids, StripProductGID(id))
		}
	}
	return ids
}

// StripProductGID removes the product namespace prefix from an id
func StripProductGID(id string) string {
	return strings.TrimPrefix(id, domain.ShopifyProductGIDPrefix)
}

// ParseFamilies decodes the families webhook body. Elements may be product nodes or
// {"node": ...} wrappers. Invalid nodes are returned in skipped rather than failing the list.
func ParseFamilies(body []byte) (families []domain.ProductFamily, skipped []error, err error) {
	if !isArray(body) {
		return nil, nil, fmt.Errorf("expected a JSON array of products")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, nil, fmt.Errorf("decode products response: %w", err)
	}
	families = make([]domain.ProductFamily, 0, len(elems))
	for i, elem := range elems {
		rec, err := decodeRecord(elem)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("product %d: %w", i, err))
			continue
		}
		f, err := rec.Family()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("product %d (%s): %w", i, rec.Title, err))
			continue
		}
		families = append(families, f)
	}
	return families, skipped, nil
}

func decodeRecord(elem json.RawMessage) (FamilyRecord, error) {
	var wrapper struct {
		Node json.RawMessage `json:"node"`
	}
	if err := json.Unmarshal(elem, &wrapper); err != nil {
		return FamilyRecord{}, err
	}
	if wrapper.Node != nil {
		elem = wrapper.Node
	}
	var rec FamilyRecord
	if err := json.Unmarshal(elem, &rec); err != nil {
		return FamilyRecord{}, err
	}
	return rec, nil
}

func isArray(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == '['
}
