package quantity

import (
	"math"
	"strconv"
)

// cookingFractions are the fractions cooks actually write. A rounded value
// whose fractional part lands within fractionTolerance of one of these is
// displayed as the fraction.
var cookingFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8.0, "1/8"},
	{1.0 / 4.0, "1/4"},
	{1.0 / 3.0, "1/3"},
	{3.0 / 8.0, "3/8"},
	{1.0 / 2.0, "1/2"},
	{5.0 / 8.0, "5/8"},
	{2.0 / 3.0, "2/3"},
	{3.0 / 4.0, "3/4"},
	{7.0 / 8.0, "7/8"},
}

const fractionTolerance = 0.05

// Format renders a quantity the way a cook would write it: "1/2", "1 1/3",
// "2.5", "50". Precision drops as magnitude grows: two decimals below 1,
// one decimal below 10, whole numbers above.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	var rounded float64
	switch {
	case math.Abs(v) < 1:
		rounded = roundTo(v, 2)
	case math.Abs(v) < 10:
		rounded = roundTo(v, 1)
	default:
		rounded = math.Round(v)
	}

	whole := math.Floor(rounded)
	if text, ok := closestFraction(rounded - whole); ok {
		if whole == 0 {
			return text
		}
		return strconv.FormatFloat(whole, 'f', -1, 64) + " " + text
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// FormatPtr is Format for optional quantities; nil renders as "".
func FormatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return Format(*v)
}

// FormatRange renders a min/max pair as "2-3". A missing bound renders as
// the other bound alone; two missing bounds render as "".
func FormatRange(min, max *float64) string {
	switch {
	case min == nil && max == nil:
		return ""
	case min == nil:
		return Format(*max)
	case max == nil:
		return Format(*min)
	default:
		return Format(*min) + "-" + Format(*max)
	}
}

// closestFraction finds the cooking fraction nearest to frac, if any is
// within tolerance.
func closestFraction(frac float64) (string, bool) {
	best := ""
	bestDiff := fractionTolerance
	for _, f := range cookingFractions {
		if diff := math.Abs(frac - f.value); diff <= bestDiff {
			best = f.text
			bestDiff = diff
		}
	}
	return best, best != ""
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
