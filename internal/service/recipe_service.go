// Package service is the facade presentation code calls into: it composes
// repository lookups, reference resolution, and scaling into materialized
// per-serving views, and builds merged shopping lists.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mberg/souschef/internal/ingredient"
	"github.com/mberg/souschef/internal/instruction"
	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository"
	"github.com/mberg/souschef/internal/resolver"
)

// ScaledComponent is one component of a materialized recipe with its
// ingredients and instruction text rewritten for the requested servings.
type ScaledComponent struct {
	Name         string                   `json:"name"`
	Slug         string                   `json:"slug,omitempty"`
	PrepTime     int                      `json:"prepTime,omitempty"`
	CookTime     int                      `json:"cookTime,omitempty"`
	WaitTime     int                      `json:"waitTime,omitempty"`
	Ingredients  []ingredient.Scaled      `json:"ingredients"`
	Instructions []string                 `json:"instructions"`
	Segments     [][]instruction.Segment  `json:"segments,omitempty"`
}

// ScaledRecipe is a recipe after resolution and scaling, ready to display.
type ScaledRecipe struct {
	Slug           string              `json:"slug"`
	Title          string              `json:"title"`
	Servings       int                 `json:"servings"`
	TargetServings int                 `json:"targetServings"`
	TotalTime      int                 `json:"totalTime,omitempty"`
	Ingredients    []ingredient.Scaled `json:"ingredients,omitempty"`
	Instructions   []string            `json:"instructions,omitempty"`
	Components     []ScaledComponent   `json:"components,omitempty"`
}

// RecipeService materializes recipes: fetch, resolve references, scale.
type RecipeService struct {
	repo     repository.Repository
	resolver *resolver.Resolver
}

// NewRecipeService creates a RecipeService reading from repo.
func NewRecipeService(repo repository.Repository) *RecipeService {
	return &RecipeService{repo: repo, resolver: resolver.New(repo)}
}

// GetRecipe returns the recipe scaled to the requested serving count, with
// all component references resolved. Resolution failures abort the whole
// call; a partially substituted recipe is never returned.
func (s *RecipeService) GetRecipe(ctx context.Context, slug, locale string, servings int) (*ScaledRecipe, error) {
	slog.Info("GetRecipe request", "slug", slug, "locale", locale, "servings", servings)

	if servings <= 0 {
		return nil, fmt.Errorf("servings must be positive, got %d", servings)
	}

	recipe, err := s.repo.GetRecipeBySlug(ctx, slug, locale)
	if err != nil {
		slog.Error("GetRecipe lookup failed", "slug", slug, "error", err)
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, *recipe, locale)
	if err != nil {
		slog.Error("GetRecipe resolution failed", "slug", slug, "error", err)
		return nil, err
	}

	out, err := scaleRecipe(resolved, servings)
	if err != nil {
		slog.Error("GetRecipe scaling failed", "slug", slug, "error", err)
		return nil, err
	}

	slog.Info("GetRecipe successful", "slug", slug, "components", len(out.Components))
	return out, nil
}

func scaleRecipe(recipe models.Recipe, servings int) (*ScaledRecipe, error) {
	out := &ScaledRecipe{
		Slug:           recipe.Slug,
		Title:          recipe.Title,
		Servings:       recipe.Servings,
		TargetServings: servings,
		TotalTime:      recipe.TotalTime,
	}

	var err error
	out.Ingredients, err = ingredient.ScaleAll(recipe.Ingredients, recipe.Servings, servings)
	if err != nil {
		return nil, err
	}
	out.Instructions = scaleInstructions(recipe.Instructions, recipe.Servings, servings)

	for _, comp := range recipe.Components {
		origin := comp.OriginServings(recipe.Servings)

		scaled, err := ingredient.ScaleAll(comp.Ingredients, origin, servings)
		if err != nil {
			return nil, err
		}
		sc := ScaledComponent{
			Name:         comp.Name,
			Slug:         comp.Slug,
			PrepTime:     comp.PrepTime,
			CookTime:     comp.CookTime,
			WaitTime:     comp.WaitTime,
			Ingredients:  scaled,
			Instructions: scaleInstructions(comp.Instructions, origin, servings),
		}
		for i, text := range comp.Instructions {
			sc.Segments = append(sc.Segments, instruction.Segments(text, sc.Instructions[i], origin, servings))
		}
		out.Components = append(out.Components, sc)
	}
	return out, nil
}

func scaleInstructions(steps []string, originalServings, targetServings int) []string {
	if steps == nil {
		return nil
	}
	out := make([]string, len(steps))
	for i, step := range steps {
		out[i] = instruction.ScaleText(step, originalServings, targetServings)
	}
	return out
}
