package domain

import (
	"github.com/google/uuid"

	"github.com/facilpersianas/blindquote/internal/money"
)

// NewLineItem creates an empty line item with a fresh id
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		CordSide: CordSideLeft,
		Quantity: 1,
	}
}

// IsActive reports whether a family has been selected for the item
func (i LineItem) IsActive() bool {
	return i.HasProduct
}

// WithFamily returns a copy of the item with the family selected. The size is reset
// to the family minimum and the subtotal is cleared until the item is priced again.
func (i LineItem) WithFamily(f ProductFamily) LineItem {
	out := i.Clone()
	out.Name = f.Title
	out.ProductIDs = append([]string(nil), f.ProductIDs...)
	out.HasProduct = true
	out.Width = f.MinWidth
	out.Height = f.MinHeight
	out.Subtotal = 0
	return out
}

// WithQuantity returns a copy with the quantity set (minimum 1) and the subtotal recomputed
func (i LineItem) WithQuantity(n int) LineItem {
	if n < 1 {
		n = 1
	}
	out := i.Clone()
	out.Quantity = n
	out.Subtotal = money.Subtotal(out.UnitPrice, n)
	return out
}

// WithVariant returns a copy priced from the selected variant
func (i LineItem) WithVariant(v NormalizedVariant, options []NormalizedVariant) LineItem {
	out := i.Clone()
	selected := v
	timeToShip := v.TimeToShip
	out.SelectedVariant = &selected
	out.VariantOptions = append([]NormalizedVariant(nil), options...)
	out.UnitPrice = v.Price
	out.Subtotal = money.Subtotal(v.Price, out.Quantity)
	out.TimeToShip = &timeToShip
	out.ShippingDimensions = &ShippingDimensions{
		Length: v.TotalPackageLength,
		Width:  v.PackageWidth,
		Height: v.PackageHeight,
	}
	return out
}

// Clone returns a deep copy
func (i LineItem) Clone() LineItem {
	out := i
	if i.ProductIDs != nil {
		out.ProductIDs = append([]string(nil), i.ProductIDs...)
	}
	if i.SelectedVariant != nil {
		v := *i.SelectedVariant
		out.SelectedVariant = &v
	}
	if i.VariantOptions != nil {
		out.VariantOptions = append([]NormalizedVariant(nil), i.VariantOptions...)
	}
	if i.TimeToShip != nil {
		t := *i.TimeToShip
		out.TimeToShip = &t
	}
	if i.ShippingDimensions != nil {
		d := *i.ShippingDimensions
		out.ShippingDimensions = &d
	}
	return out
}
