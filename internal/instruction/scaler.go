// Package instruction rewrites the {{quantity unit}} annotations embedded
// in instruction text under a serving-count ratio. Times and temperatures
// are recognized and left at their original values; anything the annotation
// grammar cannot parse keeps its braces and passes through verbatim.
package instruction

import (
	"regexp"
	"strings"

	"github.com/mberg/souschef/internal/quantity"
)

// tokenRe finds annotation tokens. Braces do not nest; the first closing
// brace ends the token.
var tokenRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Units that mark a token as non-scaling. Doubling a recipe doubles the
// butter, not the oven temperature or the simmer time.
var (
	timeUnits = map[string]bool{
		"second": true, "seconds": true, "sec": true, "secs": true,
		"minute": true, "minutes": true, "min": true, "mins": true,
		"hour": true, "hours": true, "hr": true, "hrs": true, "h": true,
	}
	temperatureUnits = map[string]bool{
		"°c": true, "°f": true, "c": true, "f": true,
		"celsius": true, "fahrenheit": true,
	}
)

// Match is one recognized annotation inside an instruction string.
type Match struct {
	Original    string // the verbatim {{...}} substring
	Quantity    float64
	QuantityMax *float64
	Unit        string // possibly empty
	StartIndex  int    // byte offsets into the source string
	EndIndex    int
	ShouldScale bool
}

// FindMatches scans text for well-formed annotations. Tokens whose content
// does not parse are dropped from the result, which leaves their literal
// text untouched during reassembly.
func FindMatches(text string) []Match {
	var out []Match
	for _, loc := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		inner := text[loc[2]:loc[3]]
		m, ok := parseToken(inner)
		if !ok {
			continue
		}
		m.Original = text[loc[0]:loc[1]]
		m.StartIndex = loc[0]
		m.EndIndex = loc[1]
		out = append(out, m)
	}
	return out
}

// ScaleText rewrites every recognized annotation in text under the
// target/original ratio and strips the braces. Non-scaling tokens keep
// their original values. Malformed tokens are left verbatim.
func ScaleText(text string, originalServings, targetServings int) string {
	matches := FindMatches(text)
	if len(matches) == 0 {
		return text
	}
	factor := ratio(originalServings, targetServings)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.StartIndex])
		b.WriteString(render(m, factor))
		last = m.EndIndex
	}
	b.WriteString(text[last:])
	return b.String()
}

// Segment is one span of a rendered instruction, marked when its value was
// changed by scaling. Presentation layers use this to highlight adjusted
// amounts.
type Segment struct {
	Text     string `json:"text"`
	IsScaled bool   `json:"isScaled"`
}

// Segments re-derives the scaled spans of an instruction from the same
// match list ScaleText uses. When the serving counts are equal or the text
// has no annotations, the whole rendered text is one unscaled segment.
func Segments(original, scaled string, originalServings, targetServings int) []Segment {
	matches := FindMatches(original)
	if originalServings == targetServings || len(matches) == 0 {
		return []Segment{{Text: scaled}}
	}
	factor := ratio(originalServings, targetServings)

	var out []Segment
	last := 0
	for _, m := range matches {
		if gap := original[last:m.StartIndex]; gap != "" {
			out = append(out, Segment{Text: gap})
		}
		out = append(out, Segment{Text: render(m, factor), IsScaled: m.ShouldScale})
		last = m.EndIndex
	}
	if tail := original[last:]; tail != "" {
		out = append(out, Segment{Text: tail})
	}
	return out
}

// parseToken splits annotation content into an amount and a unit. The
// amount part is the leading run of digits, dots, slashes, spaces and
// dashes; the remainder must be a unit of letters and degree signs only.
func parseToken(inner string) (Match, bool) {
	split := len(inner)
	for i, r := range inner {
		if !isAmountRune(r) {
			split = i
			break
		}
	}
	amountPart := inner[:split]
	unitPart := strings.TrimSpace(inner[split:])

	m, ok := quantity.ParseAll(amountPart)
	if !ok {
		return Match{}, false
	}
	if !validUnit(unitPart) {
		return Match{}, false
	}

	out := Match{Quantity: m.Value, Unit: unitPart}
	if m.HasMax {
		max := m.Max
		out.QuantityMax = &max
	}
	out.ShouldScale = shouldScale(unitPart)
	return out, true
}

func render(m Match, factor float64) string {
	q := m.Quantity
	max := m.QuantityMax
	if m.ShouldScale {
		q *= factor
		if max != nil {
			scaled := *max * factor
			max = &scaled
		}
	}
	formatted := quantity.FormatRange(&q, max)
	switch {
	case m.Unit == "":
		return formatted
	case strings.HasPrefix(m.Unit, "°"):
		return formatted + m.Unit
	default:
		return formatted + " " + m.Unit
	}
}

// shouldScale classifies a unit. An absent unit scales by default; time and
// temperature units never scale.
func shouldScale(unit string) bool {
	if unit == "" {
		return true
	}
	n := strings.ToLower(unit)
	return !timeUnits[n] && !temperatureUnits[n]
}

func validUnit(unit string) bool {
	for _, r := range unit {
		if r == '°' {
			continue
		}
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isAmountRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '/' || r == ' ' || r == '-' || r == '–' || r == '—':
		return true
	}
	return false
}

func ratio(originalServings, targetServings int) float64 {
	if originalServings <= 0 || targetServings <= 0 {
		return 1
	}
	return float64(targetServings) / float64(originalServings)
}
