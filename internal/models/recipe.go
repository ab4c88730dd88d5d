package models

import "regexp"

// slugPattern matches lowercase kebab-case identifiers used for recipe and
// component slugs.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a well-formed recipe or component slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ReferenceType identifies how a component borrows content from another
// recipe. Only component references exist today.
type ReferenceType string

// ReferenceComponent borrows a single named component from another recipe.
const ReferenceComponent ReferenceType = "component"

// ComponentReference points a component at a component of a different
// recipe. A component carrying a reference starts with empty ingredients and
// instructions; the resolver fills them in.
type ComponentReference struct {
	Type          ReferenceType `json:"type"`
	RecipeSlug    string        `json:"recipeSlug"`
	ComponentSlug string        `json:"componentSlug"`

	// SourceServings is the serving count of the recipe the content was
	// copied from. Set by the resolver; required so borrowed ingredients
	// scale against the recipe they actually originated from.
	SourceServings int `json:"sourceServings,omitempty"`
}

// Component is a named sub-recipe ("Sauce", "Topping") with its own
// ingredients, instructions and timing.
type Component struct {
	Name         string              `json:"name"`
	Slug         string              `json:"slug,omitempty"`
	PrepTime     int                 `json:"prepTime,omitempty"` // minutes
	CookTime     int                 `json:"cookTime,omitempty"` // minutes
	WaitTime     int                 `json:"waitTime,omitempty"` // minutes
	Ingredients  []Ingredient        `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	Reference    *ComponentReference `json:"reference,omitempty"`
}

// TotalTime is the component's contribution to the recipe total: active
// time and waiting overlap, so the longer of the two wins.
func (c Component) TotalTime() int {
	active := c.PrepTime + c.CookTime
	if c.WaitTime > active {
		return c.WaitTime
	}
	return active
}

// OriginServings returns the serving count this component's quantities are
// written for. A resolved borrowed component keeps the serving count of the
// recipe it came from; everything else uses the enclosing recipe's. Every
// scaling path derives its ratio from this so the recipe view and the
// shopping list always agree.
func (c Component) OriginServings(recipeServings int) int {
	if c.Reference != nil && c.Reference.SourceServings > 0 {
		return c.Reference.SourceServings
	}
	return recipeServings
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	out := c
	if c.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(c.Ingredients))
		copy(out.Ingredients, c.Ingredients)
	}
	if c.Instructions != nil {
		out.Instructions = make([]string, len(c.Instructions))
		copy(out.Instructions, c.Instructions)
	}
	if c.Reference != nil {
		ref := *c.Reference
		out.Reference = &ref
	}
	return out
}

// Recipe is one stored recipe. A recipe has either top-level ingredients and
// instructions or at least one component, never neither; the ingestion layer
// enforces that before a recipe reaches this engine.
type Recipe struct {
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Instructions []string     `json:"instructions,omitempty"`
	Components   []Component  `json:"components,omitempty"`
	TotalTime    int          `json:"totalTime,omitempty"` // minutes
}

// HasUnresolvedReferences reports whether any component still needs the
// resolver.
func (r Recipe) HasUnresolvedReferences() bool {
	for _, c := range r.Components {
		if c.Reference != nil && len(c.Ingredients) == 0 && len(c.Instructions) == 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	if r.Instructions != nil {
		out.Instructions = make([]string, len(r.Instructions))
		copy(out.Instructions, r.Instructions)
	}
	if r.Components != nil {
		out.Components = make([]Component, len(r.Components))
		for i, c := range r.Components {
			out.Components[i] = c.Clone()
		}
	}
	return out
}
