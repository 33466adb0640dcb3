// Package order turns a priced quotation into an order draft and submits it to the
// order system webhook.
package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/facilpersianas/blindquote/internal/dimension"
	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/money"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

// CartType is the only cart type the order system accepts from quotations
const CartType = "new"

// DraftInput is everything needed to build a cart submission
type DraftInput struct {
	Customer             domain.Customer   `json:"customer"`
	Seller               string            `json:"seller"` // seller value, e.g. "bruna"
	Items                []domain.LineItem `json:"items"`
	FreightCost          float64           `json:"freightCost"`
	Notes                string            `json:"notes"`
	DeliveryEstimateDate string            `json:"deliveryEstimateDate"`
}

// CartSubmissionPayload is the body posted to the order draft webhook
type CartSubmissionPayload struct {
	Customer                  PayloadCustomer `json:"customer"`
	Cart                      Cart            `json:"cart"`
	CartTotalInput            string          `json:"cart_total_input"`
	CartTotalInputWithFreight string          `json:"cart_total_input_with_freight"`
	FreightEstimatedCost      string          `json:"freight_estimated_cost"`
	OrderNotes                string          `json:"order_notes"`
	DeliveryEstimateDate      *string         `json:"delivery_estimate_date"`
}

type PayloadCustomer struct {
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Address   PayloadAddress `json:"address"`
}

type PayloadAddress struct {
	CEP string `json:"cep"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	SellerName string     `json:"seller_name"`
	CartType   string     `json:"cart_type"`
}

// CartItem is one blind of the cart. Sizes are sent in cm with a decimal comma and in mm.
type CartItem struct {
	NomePersiana      string       `json:"nomePersiana"`
	IDSelectedProduct string       `json:"id_selected_product"`
	IDAllProducts     []string     `json:"id_all_products"`
	Largura           string       `json:"largura"`
	Altura            string       `json:"altura"`
	LarguraMm         int          `json:"larguraMm"`
	AlturaMm          int          `json:"alturaMm"`
	LadoCordinha      string       `json:"ladoCordinha"`
	Quantidade        int          `json:"quantidade"`
	VariantInfo       *VariantInfo `json:"variant_info"`
	PrecoUnitario     float64      `json:"precoUnitario"`
	Subtotal          float64      `json:"subtotal"`
	Observacao        string       `json:"observacao"`
}

// VariantInfo echoes the selected variant in the catalog's own wire shape
type VariantInfo struct {
	ID                 string       `json:"id"`
	SKU                string       `json:"sku"`
	Price              string       `json:"price"`
	TimeToShip         *ValueString `json:"timeToShip"`
	TotalPackageLength ValueString  `json:"totalPackageLenght"`
	PackageWidth       ValueString  `json:"packageWidth"`
	PackageHeight      ValueString  `json:"packageHeight"`
	SKUBase            string       `json:"sku-base"`
	Length             string       `json:"length"`
	Height             string       `json:"height"`
	IDVariant          string       `json:"id_variant"`
}

// ValueString is the metafield wrapper {"value": "..."}
type ValueString struct {
	Value string `json:"value"`
}

// BuildDraft assembles the cart submission. Only priced items (family and variant
// selected) are included; totals are computed from them.
func BuildDraft(in DraftInput, sellers []domain.Seller) (CartSubmissionPayload, error) {
	seller, ok := findSeller(sellers, in.Seller)
	if !ok {
		return CartSubmissionPayload{}, &errors.ErrValidation{
			Message: "unknown seller",
			Fields:  map[string]string{"seller": fmt.Sprintf("%q is not a configured seller", in.Seller)},
		}
	}

	firstName, lastName := SplitName(in.Customer.Name)
	items := make([]CartItem, 0, len(in.Items))
	subtotals := make([]float64, 0, len(in.Items))
	for _, item := range in.Items {
		if !item.HasProduct || item.SelectedVariant == nil {
			continue
		}
		items = append(items, cartItem(item))
		subtotals = append(subtotals, item.Subtotal)
	}

	total := money.Sum(subtotals...)
	freight := money.Round2(in.FreightCost)

	var deliveryDate *string
	if d := strings.TrimSpace(in.DeliveryEstimateDate); d != "" {
		deliveryDate = &d
	}

	return CartSubmissionPayload{
		Customer: PayloadCustomer{
			Email:     strings.TrimSpace(in.Customer.Email),
			FirstName: firstName,
			LastName:  lastName,
			Address:   PayloadAddress{CEP: in.Customer.ZipCode},
		},
		Cart: Cart{
			Items:      items,
			SellerName: seller.Label,
			CartType:   CartType,
		},
		CartTotalInput:            money.Format2(total),
		CartTotalInputWithFreight: money.Format2(money.Sum(total, freight)),
		FreightEstimatedCost:      money.Format2(freight),
		OrderNotes:                in.Notes,
		DeliveryEstimateDate:      deliveryDate,
	}, nil
}

func cartItem(item domain.LineItem) CartItem {
	v := item.SelectedVariant
	info := &VariantInfo{
		ID:                 v.ID,
		SKU:                v.SKU,
		Price:              strconv.FormatFloat(v.Price, 'f', -1, 64),
		TotalPackageLength: ValueString{Value: strconv.Itoa(v.TotalPackageLength)},
		PackageWidth:       ValueString{Value: strconv.Itoa(v.PackageWidth)},
		PackageHeight:      ValueString{Value: strconv.Itoa(v.PackageHeight)},
		SKUBase:            v.SKUBase,
		Length:             strconv.Itoa(v.Length),
		Height:             strconv.Itoa(v.Height),
		IDVariant:          v.ID,
	}
	if v.TimeToShip != 0 {
		info.TimeToShip = &ValueString{Value: strconv.Itoa(v.TimeToShip)}
	}

	ids := item.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	selected := ""
	if len(ids) > 0 {
		selected = ids[0]
	}

	return CartItem{
		NomePersiana:      item.Name,
		IDSelectedProduct: selected,
		IDAllProducts:     append([]string(nil), ids...),
		Largura:           money.FormatComma1(item.Width),
		Altura:            money.FormatComma1(item.Height),
		LarguraMm:         dimension.CmToMm(item.Width),
		AlturaMm:          dimension.CmToMm(item.Height),
		LadoCordinha:      cordSideWire(item.CordSide),
		Quantidade:        item.Quantity,
		VariantInfo:       info,
		PrecoUnitario:     item.UnitPrice,
		Subtotal:          item.Subtotal,
	}
}

// ValidatePayload checks what the order system requires before anything is sent
func ValidatePayload(p CartSubmissionPayload) error {
	fields := map[string]string{}
	if p.Customer.Email == "" {
		fields["customer.email"] = "required"
	}
	if len(p.Cart.Items) == 0 {
		fields["cart.items"] = "at least one priced item is required"
	}
	for i, item := range p.Cart.Items {
		key := fmt.Sprintf("cart.items[%d]", i)
		switch {
		case item.NomePersiana == "":
			fields[key] = "missing product name"
		case item.VariantInfo == nil:
			fields[key] = "missing variant"
		case item.Quantidade < 1:
			fields[key] = "quantity must be at least 1"
		}
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid cart payload", Fields: fields}
	}
	return nil
}

// SplitName splits a full name at the first space
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

func findSeller(sellers []domain.Seller, value string) (domain.Seller, bool) {
	for _, s := range sellers {
		if s.Value == value {
			return s, true
		}
	}
	return domain.Seller{}, false
}

// the order system expects Portuguese side names regardless of display labels
func cordSideWire(s domain.CordSide) string {
	if s == domain.CordSideRight {
		return "direita"
	}
	return "esquerda"
}
