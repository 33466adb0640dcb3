// Package dimension converts between the catalog's millimeters and the centimeters
// offered to users, and builds the selectable size and cord options of a family.
package dimension

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// CmToMm converts centimeters to whole millimeters, rounding half away from zero.
func CmToMm(cm float64) int {
	return int(math.Round(cm * 10))
}

// MmToCm converts millimeters to centimeters rounded to one decimal. The exact binary
// value of mm/10 is rounded to the nearest tenth, exact ties away from zero.
func MmToCm(mm float64) float64 {
	if math.IsNaN(mm) || math.IsInf(mm, 0) {
		return mm
	}
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(mm / 10))
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil) // x >= 0, truncation is the floor
	tenths, _ := new(big.Float).SetInt(n).Float64()
	if mm < 0 {
		tenths = -tenths
	}
	return tenths / 10
}

// ParseMmToCm parses a millimeter string and converts it. Non-numeric input yields NaN.
func ParseMmToCm(mm string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(mm), 64)
	if err != nil {
		return math.NaN()
	}
	return MmToCm(v)
}
