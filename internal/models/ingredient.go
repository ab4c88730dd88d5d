package models

// Ingredient is the structured form of one free-text ingredient line.
// It is produced by the ingredient parser and never mutated afterwards.
type Ingredient struct {
	// Raw is the original line exactly as authored, kept for display
	// fallbacks and debugging.
	Raw string `json:"raw"`

	// Quantity is the parsed amount, or nil when the line carried none
	// ("salt", "a few sprigs of thyme").
	Quantity *float64 `json:"quantity,omitempty"`

	// QuantityMax is the upper bound of a range ("2-3 cloves").
	// Invariant: QuantityMax is only set when Quantity is set, and
	// Quantity <= QuantityMax.
	QuantityMax *float64 `json:"quantityMax,omitempty"`

	// Unit is the matched unit token as it appeared in the line, or ""
	// when the line had none.
	Unit string `json:"unit,omitempty"`

	// Name is the ingredient name with quantity, unit and notes stripped.
	Name string `json:"name"`

	// Notes holds a trailing parenthetical or preparation clause
	// ("finely chopped", "optional").
	Notes string `json:"notes,omitempty"`

	// Scalable reports whether the quantity should follow the serving
	// count. Garnishes, to-taste seasonings and approximate amounts
	// (a pinch, a dash) stay fixed.
	Scalable bool `json:"scalable"`
}

// HasQuantity reports whether the line carried a parseable amount.
func (i Ingredient) HasQuantity() bool {
	return i.Quantity != nil
}
