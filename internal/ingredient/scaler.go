package ingredient

import (
	"fmt"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/quantity"
)

// Scaled is an ingredient after applying a serving-count ratio. It keeps
// the parsed record intact and adds the scaled values plus a display string.
type Scaled struct {
	models.Ingredient

	ScaledQuantity    *float64 `json:"scaledQuantity,omitempty"`
	ScaledQuantityMax *float64 `json:"scaledQuantityMax,omitempty"`
	DisplayQuantity   string   `json:"displayQuantity"`
	OriginalServings  int      `json:"originalServings"`
	TargetServings    int      `json:"targetServings"`
}

// Scale applies the target/original serving ratio to one ingredient.
// Non-scalable ingredients and ingredients without a quantity pass through
// with their original values. Callers validate serving counts; see ScaleAll.
func Scale(ing models.Ingredient, originalServings, targetServings int) Scaled {
	out := Scaled{
		Ingredient:       ing,
		OriginalServings: originalServings,
		TargetServings:   targetServings,
	}

	if !ing.Scalable || ing.Quantity == nil {
		out.ScaledQuantity = copyFloat(ing.Quantity)
		out.ScaledQuantityMax = copyFloat(ing.QuantityMax)
		out.DisplayQuantity = quantity.FormatRange(ing.Quantity, ing.QuantityMax)
		return out
	}

	factor := float64(targetServings) / float64(originalServings)
	v := *ing.Quantity * factor
	out.ScaledQuantity = &v
	if ing.QuantityMax != nil {
		max := *ing.QuantityMax * factor
		out.ScaledQuantityMax = &max
	}
	out.DisplayQuantity = quantity.FormatRange(out.ScaledQuantity, out.ScaledQuantityMax)
	return out
}

// ScaleAll scales every ingredient in the list. Serving counts must both be
// positive; anything else rejects the whole call.
func ScaleAll(list []models.Ingredient, originalServings, targetServings int) ([]Scaled, error) {
	if originalServings <= 0 || targetServings <= 0 {
		return nil, fmt.Errorf("serving counts must be positive, got %d -> %d", originalServings, targetServings)
	}
	out := make([]Scaled, len(list))
	for i, ing := range list {
		out[i] = Scale(ing, originalServings, targetServings)
	}
	return out, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
