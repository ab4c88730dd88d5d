// Package shopping merges the ingredients of many scaled recipes into one
// deduplicated, unit-reconciled shopping list, and encodes/decodes the
// shareable list payload.
package shopping

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mberg/souschef/internal/ingredient"
	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/quantity"
	"github.com/mberg/souschef/internal/units"
)

// Source records which recipe contributed to a shopping item.
type Source struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Servings int    `json:"servings"`
}

// Item is one merged entry of the aggregated shopping list.
type Item struct {
	// ID is derived from the normalized name and the sorted source slugs,
	// so it is stable across runs and independent of recipe order. The UI
	// keys its checked-off state on it.
	ID string `json:"id"`

	// Name is the normalized (lowercased, trimmed) grouping key;
	// DisplayName keeps the casing of the first occurrence.
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`

	Quantity    *float64 `json:"quantity,omitempty"`
	QuantityMax *float64 `json:"quantityMax,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Notes       string   `json:"notes,omitempty"`

	// Sources is never empty.
	Sources []Source `json:"sources"`
}

// Aggregator merges recipes into shopping lists. The collator makes the
// final sort locale-aware; zero-value construction is not supported.
type Aggregator struct {
	coll *collate.Collator
}

// NewAggregator returns an aggregator sorting with the given locale's
// collation rules.
func NewAggregator(tag language.Tag) *Aggregator {
	return &Aggregator{coll: collate.New(tag)}
}

// Aggregate builds the merged shopping list for the given recipes, each
// scaled to its requested serving count. The two slices are parallel and
// must have equal length. The result is recomputed wholesale on every call
// and sorted alphabetically by display name.
func (a *Aggregator) Aggregate(recipes []models.Recipe, servingsPerRecipe []int) ([]Item, error) {
	if len(recipes) != len(servingsPerRecipe) {
		return nil, fmt.Errorf("got %d recipes but %d serving counts", len(recipes), len(servingsPerRecipe))
	}

	groups := make(map[string][]tagged)
	var order []string

	for i, recipe := range recipes {
		scaled, err := scaleRecipeIngredients(recipe, servingsPerRecipe[i])
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", recipe.Slug, err)
		}
		source := Source{Slug: recipe.Slug, Title: recipe.Title, Servings: servingsPerRecipe[i]}
		for _, s := range scaled {
			key := strings.ToLower(strings.TrimSpace(s.Name))
			if key == "" {
				continue
			}
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], tagged{scaled: s, source: source})
		}
	}

	items := make([]Item, 0, len(order))
	for _, key := range order {
		group := groups[key]
		item := Item{Name: key, DisplayName: group[0].scaled.Name}

		var slugs []string
		for _, t := range group {
			if !containsSlug(item.Sources, t.source.Slug) {
				item.Sources = append(item.Sources, t.source)
				slugs = append(slugs, t.source.Slug)
			}
		}

		notes := dedupeNotes(group, func(t tagged) string { return t.scaled.Notes })
		mergeQuantities(&item, group, &notes)
		item.Notes = strings.Join(notes, "; ")
		item.ID = itemID(key, slugs)
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return a.coll.CompareString(items[i].DisplayName, items[j].DisplayName) < 0
	})
	return items, nil
}

// scaleRecipeIngredients scales every ingredient of the recipe to the
// requested servings, in document order. Each component scales against its
// own origin serving count, so the list matches the scaled recipe view even
// when a resolved reference brought quantities written for another recipe.
func scaleRecipeIngredients(recipe models.Recipe, servings int) ([]ingredient.Scaled, error) {
	out, err := ingredient.ScaleAll(recipe.Ingredients, recipe.Servings, servings)
	if err != nil {
		return nil, err
	}
	for _, comp := range recipe.Components {
		scaled, err := ingredient.ScaleAll(comp.Ingredients, comp.OriginServings(recipe.Servings), servings)
		if err != nil {
			return nil, err
		}
		out = append(out, scaled...)
	}
	return out, nil
}

// tagged pairs one scaled ingredient with the recipe it came from.
type tagged struct {
	scaled ingredient.Scaled
	source Source
}

// unitGroup is the per-unit partition of one ingredient group.
type unitGroup struct {
	unit   string // first-seen token for display
	sum    float64
	maxSum float64
	hasMax bool
}

// mergeQuantities reconciles the quantities of one name group onto the
// item. Members without a quantity contribute notes and sources only. When
// unit groups cannot be reconciled, the first group becomes the headline
// and the rest are preserved in an "also needed" note so no quantity is
// ever silently dropped.
func mergeQuantities(item *Item, group []tagged, notes *[]string) {
	var parts []*unitGroup
	byUnit := make(map[string]*unitGroup)

	for _, t := range group {
		s := t.scaled
		if s.ScaledQuantity == nil {
			continue
		}
		key := units.Normalize(s.Unit)
		g, ok := byUnit[key]
		if !ok {
			g = &unitGroup{unit: s.Unit}
			byUnit[key] = g
			parts = append(parts, g)
		}
		g.sum += *s.ScaledQuantity
		if s.ScaledQuantityMax != nil {
			g.maxSum += *s.ScaledQuantityMax
			g.hasMax = true
		} else {
			g.maxSum += *s.ScaledQuantity
		}
	}

	if len(parts) == 0 {
		return
	}
	if len(parts) == 1 {
		applyHeadline(item, parts[0])
		return
	}

	// Several units: fold them together if they all reconcile.
	if merged, ok := foldCompatible(parts); ok {
		applyHeadline(item, merged)
		return
	}

	applyHeadline(item, parts[0])
	var leftovers []string
	for _, g := range parts[1:] {
		amount := quantity.Format(g.sum)
		if g.hasMax {
			amount += "-" + quantity.Format(g.maxSum)
		}
		leftovers = append(leftovers, strings.TrimSpace(amount+" "+g.unit))
	}
	*notes = append(*notes, "also needed: "+strings.Join(leftovers, ", "))
}

// foldCompatible sums all unit groups into one if every pair reconciles.
func foldCompatible(parts []*unitGroup) (*unitGroup, bool) {
	acc := &unitGroup{unit: parts[0].unit, sum: parts[0].sum, maxSum: parts[0].maxSum, hasMax: parts[0].hasMax}
	for _, g := range parts[1:] {
		sum, err := units.AddQuantities(acc.sum, acc.unit, g.sum, g.unit)
		if err != nil {
			return nil, false
		}
		max, err := units.AddQuantities(acc.maxSum, acc.unit, g.maxSum, g.unit)
		if err != nil {
			return nil, false
		}
		acc = &unitGroup{unit: sum.Unit, sum: sum.Quantity, maxSum: max.Quantity, hasMax: acc.hasMax || g.hasMax}
	}
	return acc, true
}

// applyHeadline writes one unit group onto the item, promoting awkward
// magnitudes to a friendlier unit.
func applyHeadline(item *Item, g *unitGroup) {
	res := units.ConvertToBetterUnit(g.sum, g.unit)
	q := res.Quantity
	item.Quantity = &q
	item.Unit = res.Unit
	if g.hasMax {
		max := g.maxSum
		if res.Converted && g.sum != 0 {
			max = g.maxSum * (res.Quantity / g.sum)
		}
		item.QuantityMax = &max
	}
}

func dedupeNotes(group []tagged, note func(tagged) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range group {
		n := strings.TrimSpace(note(t))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func containsSlug(sources []Source, slug string) bool {
	for _, s := range sources {
		if s.Slug == slug {
			return true
		}
	}
	return false
}

// itemID hashes the normalized name with the sorted source slugs, yielding
// the same id for the same list contents regardless of recipe order.
func itemID(name string, slugs []string) string {
	sorted := make([]string, len(slugs))
	copy(sorted, slugs)
	sort.Strings(sorted)
	sum := sha256.Sum256([]byte(name + "|" + strings.Join(sorted, ",")))
	return hex.EncodeToString(sum[:])[:16]
}
