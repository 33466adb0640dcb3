// Package variant turns raw catalog variants into numeric records and picks the
// smallest manufactured size that covers a requested opening.
package variant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/money"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

// Normalize parses every numeric field of a raw variant. Price, length and height are
// required; time-to-ship and package dimensions default to 0 when absent.
func Normalize(raw domain.Variant) (domain.NormalizedVariant, error) {
	price, err := parseDecimal(raw.Price)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "price", err)
	}
	length, err := parseInteger(raw.Length, true)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "length", err)
	}
	height, err := parseInteger(raw.Height, true)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "height", err)
	}
	timeToShip, err := parseInteger(raw.TimeToShip, false)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "timeToShip", err)
	}
	pkgLength, err := parseInteger(raw.TotalPackageLength, false)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "totalPackageLenght", err)
	}
	pkgWidth, err := parseInteger(raw.PackageWidth, false)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "packageWidth", err)
	}
	pkgHeight, err := parseInteger(raw.PackageHeight, false)
	if err != nil {
		return domain.NormalizedVariant{}, malformed(raw, "packageHeight", err)
	}

	return domain.NormalizedVariant{
		ID:                 raw.ID,
		SKU:                raw.SKU,
		Price:              price,
		TimeToShip:         timeToShip,
		TotalPackageLength: pkgLength,
		PackageWidth:       pkgWidth,
		PackageHeight:      pkgHeight,
		SKUBase:            raw.SKUBase,
		Length:             length,
		Height:             height,
	}, nil
}

// NormalizeOrZero is Normalize with failures collapsed to the zero-valued variant.
func NormalizeOrZero(raw domain.Variant) domain.NormalizedVariant {
	v, err := Normalize(raw)
	if err != nil {
		return domain.NormalizedVariant{}
	}
	return v
}

func malformed(raw domain.Variant, field string, err error) error {
	record := "variant"
	if raw.SKU != "" {
		record = "variant " + raw.SKU
	} else if raw.ID != "" {
		record = "variant " + raw.ID
	}
	return &errors.ErrMalformedRecord{Record: record, Field: field, Err: err}
}

func parseDecimal(v domain.RawValue) (float64, error) {
	s := strings.TrimSpace(v.Value)
	if !v.Set || s == "" {
		return 0, fmt.Errorf("missing value")
	}
	f, err := money.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v.Value)
	}
	return f, nil
}

// parseInteger accepts integers and decimal text ("1000.0"), truncating the latter.
func parseInteger(v domain.RawValue, required bool) (int, error) {
	s := strings.TrimSpace(v.Value)
	if !v.Set || s == "" {
		if required {
			return 0, fmt.Errorf("missing value")
		}
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", v.Value)
	}
	return int(math.Trunc(f)), nil
}
