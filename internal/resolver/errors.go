package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution failures are typed so callers can tell them apart from plain
// validation errors and surface the offending slugs. None of them is
// recovered automatically: any of these aborts the whole resolve call.

// CircularReferenceError reports a reference chain that loops back on
// itself. Cycle lists the recipe slugs in resolution order, ending with the
// repeated one.
type CircularReferenceError struct {
	Cycle []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular component reference: %s", strings.Join(e.Cycle, " -> "))
}

// DepthExceededError reports a reference chain longer than the configured
// maximum.
type DepthExceededError struct {
	Slug     string
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("resolving %q exceeds the maximum reference depth of %d", e.Slug, e.MaxDepth)
}

// RecipeNotFoundError reports a reference to a recipe the repository does
// not have for the requested locale.
type RecipeNotFoundError struct {
	Slug   string
	Locale string
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("referenced recipe %q not found for locale %q", e.Slug, e.Locale)
}

// ComponentNotFoundError reports a reference to a component slug the source
// recipe does not define. Available lists the slugs it does define, as a
// hint for fixing the reference.
type ComponentNotFoundError struct {
	RecipeSlug    string
	ComponentSlug string
	Available     []string
}

func (e *ComponentNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("component %q not found in recipe %q (it has no slugged components)",
			e.ComponentSlug, e.RecipeSlug)
	}
	return fmt.Sprintf("component %q not found in recipe %q (available: %s)",
		e.ComponentSlug, e.RecipeSlug, strings.Join(e.Available, ", "))
}

// IsResolutionError reports whether err is one of the resolver's own
// failure kinds, as opposed to a repository or context error.
func IsResolutionError(err error) bool {
	var circular *CircularReferenceError
	var depth *DepthExceededError
	var recipe *RecipeNotFoundError
	var component *ComponentNotFoundError
	return errors.As(err, &circular) ||
		errors.As(err, &depth) ||
		errors.As(err, &recipe) ||
		errors.As(err, &component)
}
