// Package quantity implements the numeric half of the recipe engine: the
// ordered grammar that recognizes amounts at the start of free text (ranges,
// mixed numbers, fractions, decimals) and the cook-friendly formatter that
// turns floats back into strings like "1 1/2" or "2-3".
package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tags which grammar rule recognized an amount.
type Kind int

const (
	// None means no amount was found.
	None Kind = iota
	// Range is two amounts joined by a dash or "to" ("2-3", "1/2 to 1").
	Range
	// Mixed is a whole number followed by a fraction ("1 1/2").
	Mixed
	// Fraction is a bare fraction ("3/4").
	Fraction
	// Decimal is a plain number ("2", "0.5").
	Decimal
)

// Match is one recognized amount at the start of a string.
type Match struct {
	Kind   Kind
	Value  float64
	Max    float64 // upper bound, only meaningful when HasMax
	HasMax bool
	Length int // bytes consumed from the input, including leading spaces
}

// The grammar is order-sensitive: a range must win over its own first bound,
// a mixed number over its whole part, a fraction over its numerator.
// Each side of a range is itself a fraction or a plain number; fractions
// come first in the alternation so "1/2" is not cut short at "1".
const (
	decimalPat  = `\d+(?:\.\d+)?`
	fractionPat = `\d+\s*/\s*\d+`
	sidePat     = `(?:` + fractionPat + `|` + decimalPat + `)`
)

var (
	rangeRe    = regexp.MustCompile(`^\s*(` + sidePat + `)\s*(?:[-–—]|[Tt][Oo]\b)\s*(` + sidePat + `)`)
	mixedRe    = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s*/\s*(\d+)`)
	fractionRe = regexp.MustCompile(`^\s*(` + fractionPat + `)`)
	decimalRe  = regexp.MustCompile(`^\s*(` + decimalPat + `)`)
)

// MatchNumber recognizes an amount at the start of s, trying range, mixed
// number, fraction and decimal in that order. The first rule that matches
// wins. A Kind of None means s does not begin with an amount.
func MatchNumber(s string) Match {
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo, okLo := parseSide(m[1])
		hi, okHi := parseSide(m[2])
		if okLo && okHi {
			if hi < lo {
				lo, hi = hi, lo
			}
			return Match{Kind: Range, Value: lo, Max: hi, HasMax: true, Length: len(m[0])}
		}
	}
	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den != 0 {
			return Match{Kind: Mixed, Value: whole + num/den, Length: len(m[0])}
		}
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		if v, ok := parseSide(m[1]); ok {
			return Match{Kind: Fraction, Value: v, Length: len(m[0])}
		}
	}
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return Match{Kind: Decimal, Value: v, Length: len(m[0])}
	}
	return Match{Kind: None}
}

// ParseAll recognizes s as a single amount with nothing but whitespace
// around it. Used for the contents of instruction annotations, where
// trailing garbage means the token is malformed rather than partial.
func ParseAll(s string) (Match, bool) {
	m := MatchNumber(s)
	if m.Kind == None {
		return Match{Kind: None}, false
	}
	if strings.TrimSpace(s[m.Length:]) != "" {
		return Match{Kind: None}, false
	}
	return m, true
}

// parseSide evaluates one side of a range: a fraction or a plain number.
func parseSide(s string) (float64, bool) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, err1 := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		den, err2 := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
