package ingredient

import (
	"sort"
	"strings"
)

// unitClass buckets the unit vocabulary. Approximate-quantity units ("a
// pinch") mark an ingredient non-scalable regardless of its quantity.
type unitClass int

const (
	classVolume unitClass = iota
	classWeight
	classCount
	classApprox
)

type unitEntry struct {
	token string
	class unitClass
}

// unitVocabulary is the closed set of unit tokens the parser recognizes.
// It is a data table so tests and future locales can extend it without
// touching the matcher.
var unitVocabulary = []unitEntry{
	// volume
	{"millilitres", classVolume}, {"milliliters", classVolume},
	{"millilitre", classVolume}, {"milliliter", classVolume},
	{"ml", classVolume}, {"cl", classVolume}, {"dl", classVolume},
	{"litres", classVolume}, {"liters", classVolume},
	{"litre", classVolume}, {"liter", classVolume}, {"l", classVolume},
	{"tablespoons", classVolume}, {"tablespoon", classVolume}, {"tbsp", classVolume},
	{"teaspoons", classVolume}, {"teaspoon", classVolume}, {"tsp", classVolume},
	{"cups", classVolume}, {"cup", classVolume},

	// weight
	{"kilograms", classWeight}, {"kilogram", classWeight}, {"kg", classWeight},
	{"grams", classWeight}, {"gram", classWeight}, {"g", classWeight},
	{"mg", classWeight},
	{"pounds", classWeight}, {"pound", classWeight}, {"lbs", classWeight}, {"lb", classWeight},
	{"ounces", classWeight}, {"ounce", classWeight}, {"oz", classWeight},

	// count
	{"cloves", classCount}, {"clove", classCount},
	{"slices", classCount}, {"slice", classCount},
	{"pieces", classCount}, {"piece", classCount}, {"pcs", classCount},
	{"cans", classCount}, {"can", classCount},
	{"jars", classCount}, {"jar", classCount},
	{"packages", classCount}, {"package", classCount}, {"pkg", classCount},
	{"bunches", classCount}, {"bunch", classCount},
	{"sticks", classCount}, {"stick", classCount},
	{"sprigs", classCount}, {"sprig", classCount},
	{"stalks", classCount}, {"stalk", classCount},
	{"heads", classCount}, {"head", classCount},
	{"leaves", classCount}, {"leaf", classCount},

	// approximate quantities
	{"pinches", classApprox}, {"pinch", classApprox},
	{"dashes", classApprox}, {"dash", classApprox},
	{"handfuls", classApprox}, {"handful", classApprox},
	{"splashes", classApprox}, {"splash", classApprox},
	{"drizzle", classApprox}, {"dollop", classApprox},
	{"knob", classApprox}, {"sprinkle", classApprox},
}

// unitsByLength is the vocabulary sorted longest token first, so
// "tablespoons" wins over any shorter token that happens to share a prefix.
var unitsByLength = func() []unitEntry {
	sorted := make([]unitEntry, len(unitVocabulary))
	copy(sorted, unitVocabulary)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].token) > len(sorted[j].token)
	})
	return sorted
}()

// matchUnit matches a vocabulary unit at the start of s, case-insensitively
// and longest-first. It returns the token as it appeared in s, its class,
// and the remainder after the token. The token must end at a word boundary,
// and something must remain to serve as the ingredient name: a line that is
// nothing but "cloves" is a name, not a unit.
func matchUnit(s string) (token string, class unitClass, rest string, ok bool) {
	trimmed := strings.TrimLeft(s, " \t")
	lower := strings.ToLower(trimmed)
	for _, entry := range unitsByLength {
		if !strings.HasPrefix(lower, entry.token) {
			continue
		}
		end := len(entry.token)
		if end < len(trimmed) && isLetter(trimmed[end]) {
			continue
		}
		remainder := strings.TrimLeft(trimmed[end:], " \t")
		if remainder == "" {
			continue
		}
		return trimmed[:end], entry.class, remainder, true
	}
	return "", 0, s, false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
