package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShopifyProductGIDPrefix is the platform namespace on catalog product identifiers
const ShopifyProductGIDPrefix = "gid://shopify/Product/"

// LineItem is one configured blind in a quotation
type LineItem struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Width              float64             `json:"width"`  // cm, 0 = unset
	Height             float64             `json:"height"` // cm, 0 = unset
	CordSide           CordSide            `json:"cordSide"`
	Quantity           int                 `json:"quantity"`
	UnitPrice          float64             `json:"unitPrice"`
	Subtotal           float64             `json:"subtotal"`
	ProductIDs         []string            `json:"product_ids,omitempty"`
	HasProduct         bool                `json:"hasProduct"`
	SelectedVariant    *NormalizedVariant  `json:"selectedVariant,omitempty"`
	VariantOptions     []NormalizedVariant `json:"variantOptions,omitempty"`
	TimeToShip         *int                `json:"timeToShip,omitempty"`
	ShippingDimensions *ShippingDimensions `json:"shippingDimensions,omitempty"`
}

// ProductFamily is a blind model as exposed to the user. Dimension bounds are in cm.
type ProductFamily struct {
	Title           string   `json:"title"`
	ProductIDs      []string `json:"productIds"`
	MinWidth        float64  `json:"minWidth"`
	MaxWidth        float64  `json:"maxWidth"`
	MinHeight       float64  `json:"minHeight"`
	MaxHeight       float64  `json:"maxHeight"`
	MovementControl *string  `json:"movementControl"`
	ProductType     string   `json:"productType,omitempty"`
}

// PrimaryProductID returns the first product id, empty if the family has none
func (f ProductFamily) PrimaryProductID() string {
	if len(f.ProductIDs) == 0 {
		return ""
	}
	return f.ProductIDs[0]
}

// Variant is a manufactured size as received from the catalog source
type Variant struct {
	ID                 string   `json:"id"`
	SKU                string   `json:"sku"`
	Price              RawValue `json:"price"`
	Length             RawValue `json:"length"` // mm
	Height             RawValue `json:"height"` // mm
	TimeToShip         RawValue `json:"timeToShip"`
	TotalPackageLength RawValue `json:"totalPackageLenght"` // upstream spelling
	PackageWidth       RawValue `json:"packageWidth"`
	PackageHeight      RawValue `json:"packageHeight"`
	SKUBase            string   `json:"sku-base"`
}

// NormalizedVariant is a Variant with numeric fields. Length and height are in mm.
type NormalizedVariant struct {
	ID                 string  `json:"id"`
	SKU                string  `json:"sku"`
	Price              float64 `json:"price"`
	TimeToShip         int     `json:"timeToShip"`
	TotalPackageLength int     `json:"totalPackageLength"`
	PackageWidth       int     `json:"packageWidth"`
	PackageHeight      int     `json:"packageHeight"`
	SKUBase            string  `json:"skuBase"`
	Length             int     `json:"length"`
	Height             int     `json:"height"`
}

// IsZero reports whether v is the zero-valued placeholder
func (v NormalizedVariant) IsZero() bool {
	return v == NormalizedVariant{}
}

// ShippingDimensions are the package dimensions of a selected variant
type ShippingDimensions struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FamilyVariants is one family of the catalog variants response
type FamilyVariants struct {
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

// Customer is the buyer attached to an order draft
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Seller is a member of the sales team an order draft is attributed to
type Seller struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CatalogSnapshot is a stored copy of the family list
type CatalogSnapshot struct {
	ID        uuid.UUID
	Families  []ProductFamily
	CreatedAt time.Time
}
