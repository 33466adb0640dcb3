package variant

import (
	"sort"

	"github.com/facilpersianas/blindquote/internal/dimension"
	"github.com/facilpersianas/blindquote/internal/domain"
)

// Fits reports whether v covers an opening of widthMm x heightMm
func Fits(v domain.NormalizedVariant, widthMm, heightMm int) bool {
	return v.Length >= widthMm && v.Height >= heightMm
}

// Match selects the smallest variant covering the requested size (cm). Candidates are
// ordered by length, then height; identical sizes fall back to price, SKU and id so the
// result does not depend on catalog order. ok is false when nothing fits.
func Match(candidates []domain.NormalizedVariant, widthCm, heightCm float64) (domain.NormalizedVariant, bool) {
	widthMm := dimension.CmToMm(widthCm)
	heightMm := dimension.CmToMm(heightCm)

	fitting := make([]domain.NormalizedVariant, 0, len(candidates))
	for _, v := range candidates {
		if Fits(v, widthMm, heightMm) {
			fitting = append(fitting, v)
		}
	}
	if len(fitting) == 0 {
		return domain.NormalizedVariant{}, false
	}

	sort.SliceStable(fitting, func(i, j int) bool {
		a, b := fitting[i], fitting[j]
		switch {
		case a.Length != b.Length:
			return a.Length < b.Length
		case a.Height != b.Height:
			return a.Height < b.Height
		case a.Price != b.Price:
			return a.Price < b.Price
		case a.SKU != b.SKU:
			return a.SKU < b.SKU
		default:
			return a.ID < b.ID
		}
	})
	return fitting[0], true
}
