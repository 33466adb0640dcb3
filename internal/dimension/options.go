package dimension

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/facilpersianas/blindquote/internal/domain"
)

// Step is the size increment offered to users, in centimeters
const Step = 0.5

// Option is one selectable entry of a dropdown
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GenerateDimensionOptions lists every half-centimeter size from minCm to maxCm inclusive.
// Malformed bounds (maxCm < minCm, NaN) give an empty list.
func GenerateDimensionOptions(minCm, maxCm float64) []Option {
	span := (maxCm - minCm) / Step
	if math.IsNaN(span) || math.IsInf(span, 0) {
		return []Option{}
	}
	// snap float noise so that e.g. 30.1..64.1 counts 68 steps, not 67.99...
	count := int(math.Floor(math.Round(span*1e6)/1e6)) + 1
	if count <= 0 {
		return []Option{}
	}

	options := make([]Option, 0, count)
	for i := 0; i < count; i++ {
		v := math.Round((minCm+float64(i)*Step)*1e6) / 1e6
		options = append(options, Option{
			Label: fmt.Sprintf("%.1f cm", v),
			Value: strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
	return options
}

// CordSideOptions resolves the cord choices of a family. A nil or blank movement
// control means the default left/right pair.
func CordSideOptions(movementControl *string, labels domain.CordSideLabels) []Option {
	if movementControl == nil || strings.TrimSpace(*movementControl) == "" {
		return []Option{
			{Label: labels.Label(domain.CordSideLeft), Value: domain.CordSideLeft.String()},
			{Label: labels.Label(domain.CordSideRight), Value: domain.CordSideRight.String()},
		}
	}

	tokens := strings.Split(*movementControl, ",")
	options := make([]Option, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		options = append(options, Option{Label: token, Value: strings.ToLower(token)})
	}
	return options
}

// FamilyOptions groups every selectable option of a family
type FamilyOptions struct {
	Title    string   `json:"title"`
	Widths   []Option `json:"widths"`
	Heights  []Option `json:"heights"`
	CordSide []Option `json:"cordSide"`
}

// ForFamily builds the width, height and cord options of a family
func ForFamily(f domain.ProductFamily, labels domain.CordSideLabels) FamilyOptions {
	return FamilyOptions{
		Title:    f.Title,
		Widths:   GenerateDimensionOptions(f.MinWidth, f.MaxWidth),
		Heights:  GenerateDimensionOptions(f.MinHeight, f.MaxHeight),
		CordSide: CordSideOptions(f.MovementControl, labels),
	}
}
