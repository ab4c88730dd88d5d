// Package resolver materializes cross-recipe component references: a
// component that borrows its content from another recipe gets that recipe's
// ingredients, instructions and timing copied in, recursively and with
// cycle and depth guards.
package resolver

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository"
)

// DefaultMaxDepth bounds how deep a reference chain may nest.
const DefaultMaxDepth = 5

// Resolver resolves component references through a repository. It holds no
// per-call state; the visited stack travels through the call chain by
// value, so concurrent Resolve calls never interfere.
type Resolver struct {
	repo     repository.Repository
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth overrides the default reference depth bound.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) { r.maxDepth = depth }
}

// New returns a resolver reading source recipes from repo.
func New(repo repository.Repository, opts ...Option) *Resolver {
	r := &Resolver{repo: repo, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a copy of recipe with every component reference replaced
// by the referenced content. Recipes without references come back
// unchanged. Any failure aborts the whole call; partial results are never
// returned.
func (r *Resolver) Resolve(ctx context.Context, recipe models.Recipe, locale string) (models.Recipe, error) {
	return r.resolve(ctx, recipe, locale, nil)
}

func (r *Resolver) resolve(ctx context.Context, recipe models.Recipe, locale string, stack []string) (models.Recipe, error) {
	for _, slug := range stack {
		if slug == recipe.Slug {
			return models.Recipe{}, &CircularReferenceError{Cycle: append(stack, recipe.Slug)}
		}
	}
	if len(stack) >= r.maxDepth {
		return models.Recipe{}, &DepthExceededError{Slug: recipe.Slug, MaxDepth: r.maxDepth}
	}
	if !hasReferences(recipe) {
		return recipe, nil
	}

	out := recipe.Clone()
	childStack := push(stack, recipe.Slug)

	// Siblings are independent of each other; only a chain is sequential.
	g, gctx := errgroup.WithContext(ctx)
	for i := range out.Components {
		if out.Components[i].Reference == nil {
			continue
		}
		g.Go(func() error {
			resolved, err := r.resolveComponent(gctx, out.Components[i], locale, childStack)
			if err != nil {
				return err
			}
			out.Components[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Recipe{}, err
	}

	out.TotalTime = totalTime(out.Components)
	return out, nil
}

// resolveComponent materializes one referenced component. The source recipe
// is resolved first if it has references of its own, so a chain resolves
// depth-first.
func (r *Resolver) resolveComponent(ctx context.Context, comp models.Component, locale string, stack []string) (models.Component, error) {
	ref := comp.Reference

	source, err := r.repo.GetRecipeBySlug(ctx, ref.RecipeSlug, locale)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Component{}, &RecipeNotFoundError{Slug: ref.RecipeSlug, Locale: locale}
		}
		return models.Component{}, err
	}

	resolved := *source
	if source.HasUnresolvedReferences() {
		resolved, err = r.resolve(ctx, *source, locale, stack)
		if err != nil {
			return models.Component{}, err
		}
	}

	sourceComp, ok := findComponent(resolved, ref.ComponentSlug)
	if !ok {
		return models.Component{}, &ComponentNotFoundError{
			RecipeSlug:    ref.RecipeSlug,
			ComponentSlug: ref.ComponentSlug,
			Available:     componentSlugs(resolved),
		}
	}

	// Keep the caller's name and slug (they are what the including recipe
	// displays); everything else comes from the source.
	out := sourceComp.Clone()
	out.Name = comp.Name
	out.Slug = comp.Slug
	out.Reference = &models.ComponentReference{
		Type:           ref.Type,
		RecipeSlug:     ref.RecipeSlug,
		ComponentSlug:  ref.ComponentSlug,
		SourceServings: resolved.Servings,
	}
	return out, nil
}

func hasReferences(recipe models.Recipe) bool {
	for _, c := range recipe.Components {
		if c.Reference != nil {
			return true
		}
	}
	return false
}

func findComponent(recipe models.Recipe, slug string) (models.Component, bool) {
	for _, c := range recipe.Components {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Component{}, false
}

func componentSlugs(recipe models.Recipe) []string {
	var out []string
	for _, c := range recipe.Components {
		if c.Slug != "" {
			out = append(out, c.Slug)
		}
	}
	return out
}

func totalTime(components []models.Component) int {
	sum := 0
	for _, c := range components {
		sum += c.TotalTime()
	}
	return sum
}

// push copies the stack with slug appended. The copy never shares a backing
// array, so sibling goroutines can extend their stacks independently.
func push(stack []string, slug string) []string {
	out := make([]string, len(stack)+1)
	copy(out, stack)
	out[len(stack)] = slug
	return out
}
