// Package ingredient turns free-text ingredient lines into structured
// records and scales them between serving counts. Parsing is deliberately
// lenient: recipe text is authored by hand, so anything the grammar cannot
// place ends up in the name rather than in an error.
package ingredient

import (
	"regexp"
	"strings"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/quantity"
)

var (
	scaleMarkerRe = regexp.MustCompile(`(?i)\{scale\}`)
	trailingParen = regexp.MustCompile(`\(([^)]*)\)\s*$`)
	bulletRe      = regexp.MustCompile(`^\s*[-*]\s+`)
)

// prepWords start a comma clause that counts as preparation notes rather
// than part of the name: "onion, finely chopped" vs "salt, pepper".
var prepWords = []string{
	"finely", "freshly", "roughly", "coarsely", "thinly", "thickly",
	"chopped", "diced", "minced", "sliced", "grated", "shredded",
	"peeled", "crushed", "melted", "softened", "beaten", "sifted",
	"drained", "rinsed", "halved", "quartered", "cubed", "trimmed",
	"divided", "optional", "to taste", "at room temperature", "plus",
	"for",
}

// nonScalingPhrases in the name or notes mark an ingredient as fixed: its
// amount does not follow the serving count.
var nonScalingPhrases = []string{
	"to taste", "as needed", "optional",
	"for garnish", "for serving", "for decoration",
}

// Parse converts one raw ingredient line into its structured form. The
// pipeline is order-sensitive: the {scale} marker is stripped first, then a
// leading amount, then a unit from the vocabulary, then trailing notes.
// Parse never fails; an empty line yields an empty, non-scalable record.
func Parse(raw string) models.Ingredient {
	ing := models.Ingredient{Raw: raw}
	work := strings.TrimSpace(raw)
	if work == "" {
		return ing
	}

	hasMarker := scaleMarkerRe.MatchString(work)
	if hasMarker {
		work = strings.TrimSpace(scaleMarkerRe.ReplaceAllString(work, ""))
	}

	if m := quantity.MatchNumber(work); m.Kind != quantity.None {
		v := m.Value
		ing.Quantity = &v
		if m.HasMax {
			max := m.Max
			ing.QuantityMax = &max
		}
		work = work[m.Length:]
	}

	var class unitClass
	var hasUnit bool
	if token, c, rest, ok := matchUnit(work); ok {
		ing.Unit = token
		class = c
		hasUnit = true
		work = rest
	}

	ing.Name, ing.Notes = splitNotes(strings.TrimSpace(work))
	ing.Scalable = decideScalable(ing, hasMarker, hasUnit, class)
	return ing
}

// ParseMarkdown extracts the bullet lines ("- ..." or "* ...") from a
// markdown fragment and parses each one. Non-bullet lines are ignored.
func ParseMarkdown(text string) []models.Ingredient {
	var out []models.Ingredient
	for _, line := range strings.Split(text, "\n") {
		loc := bulletRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		out = append(out, Parse(strings.TrimSpace(line[loc[1]:])))
	}
	return out
}

// splitNotes separates trailing notes from the name: either a final
// parenthetical, or a comma clause that starts with a preparation word.
// Any other comma stays part of the name.
func splitNotes(s string) (name, notes string) {
	if m := trailingParen.FindStringSubmatchIndex(s); m != nil {
		notes = strings.TrimSpace(s[m[2]:m[3]])
		name = strings.TrimSpace(s[:m[0]])
		return name, notes
	}
	if i := strings.Index(s, ","); i >= 0 {
		clause := strings.TrimSpace(s[i+1:])
		if startsWithPrepWord(clause) {
			return strings.TrimSpace(s[:i]), clause
		}
	}
	return s, ""
}

func startsWithPrepWord(clause string) bool {
	lower := strings.ToLower(clause)
	for _, w := range prepWords {
		if !strings.HasPrefix(lower, w) {
			continue
		}
		if len(lower) == len(w) || !isLetter(lower[len(w)]) {
			return true
		}
	}
	return false
}

func decideScalable(ing models.Ingredient, hasMarker, hasUnit bool, class unitClass) bool {
	if hasMarker {
		return true
	}
	if hasUnit && class == classApprox {
		return false
	}
	combined := strings.ToLower(ing.Name + " " + ing.Notes)
	for _, phrase := range nonScalingPhrases {
		if strings.Contains(combined, phrase) {
			return false
		}
	}
	return true
}
