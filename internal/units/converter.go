// Package units reconciles the small metric unit families a shopping list
// has to add across: volume (millilitre base) and weight (gram base).
// Anything outside these tables (cups, cloves, pinches) only ever adds to
// itself.
package units

import (
	"fmt"
	"strings"
)

// Base factors to millilitres and grams. Lookups are case-insensitive;
// display casing is decided separately (litres render as "L").
var (
	volumeToMl = map[string]float64{
		"ml": 1,
		"cl": 10,
		"dl": 100,
		"l":  1000,
	}
	weightToG = map[string]float64{
		"mg": 0.001,
		"g":  1,
		"kg": 1000,
	}
)

const (
	baseVolumeUnit = "ml"
	baseWeightUnit = "g"
	litreUnit      = "L"
	kilogramUnit   = "kg"
)

// Result is a quantity after best-unit conversion or addition.
type Result struct {
	Quantity  float64
	Unit      string
	Converted bool
}

// Normalize lowercases and trims a unit token for table lookups.
func Normalize(unit string) string {
	return toLowerTrim(unit)
}

// AreCompatible reports whether two unit tokens can be summed: either they
// are the same unit, or both belong to the same metric family.
func AreCompatible(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if _, ok := volumeToMl[na]; ok {
		_, ok2 := volumeToMl[nb]
		return ok2
	}
	if _, ok := weightToG[na]; ok {
		_, ok2 := weightToG[nb]
		return ok2
	}
	return false
}

// ConvertToBetterUnit promotes awkward magnitudes to a friendlier unit:
// a litre or more of volume becomes litres, a kilogram or more of weight
// becomes kilograms. Everything else passes through unchanged.
func ConvertToBetterUnit(qty float64, unit string) Result {
	n := Normalize(unit)
	if factor, ok := volumeToMl[n]; ok {
		if ml := qty * factor; ml >= 1000 && n != "l" {
			return Result{Quantity: ml / 1000, Unit: litreUnit, Converted: true}
		}
	}
	if factor, ok := weightToG[n]; ok {
		if g := qty * factor; g >= 1000 && n != "kg" {
			return Result{Quantity: g / 1000, Unit: kilogramUnit, Converted: true}
		}
	}
	return Result{Quantity: qty, Unit: unit, Converted: false}
}

// AddQuantities sums two quantities, reconciling their units. Same units add
// directly; compatible units add in the family's base unit; two empty units
// add as bare numbers. Incompatible units are an error; the caller decides
// whether to keep them apart or surface the conflict.
func AddQuantities(q1 float64, u1 string, q2 float64, u2 string) (Result, error) {
	n1, n2 := Normalize(u1), Normalize(u2)

	if n1 == "" && n2 == "" {
		return Result{Quantity: q1 + q2}, nil
	}
	if n1 == n2 {
		return ConvertToBetterUnit(q1+q2, u1), nil
	}
	if f1, ok := volumeToMl[n1]; ok {
		if f2, ok := volumeToMl[n2]; ok {
			return ConvertToBetterUnit(q1*f1+q2*f2, baseVolumeUnit), nil
		}
	}
	if f1, ok := weightToG[n1]; ok {
		if f2, ok := weightToG[n2]; ok {
			return ConvertToBetterUnit(q1*f1+q2*f2, baseWeightUnit), nil
		}
	}
	return Result{}, fmt.Errorf("cannot add incompatible units %q and %q", u1, u2)
}

func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
