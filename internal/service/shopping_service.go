package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository"
	"github.com/mberg/souschef/internal/resolver"
	"github.com/mberg/souschef/internal/shopping"
)

// Selection is one recipe to shop for, at a requested serving count.
type Selection struct {
	Slug     string `json:"slug"`
	Servings int    `json:"servings"`
}

// List is a built shopping list.
type List struct {
	Title string          `json:"title,omitempty"`
	Items []shopping.Item `json:"items"`
}

// ShoppingService builds merged shopping lists across recipes.
type ShoppingService struct {
	repo     repository.Repository
	resolver *resolver.Resolver
	agg      *shopping.Aggregator
}

// NewShoppingService creates a ShoppingService reading from repo and
// sorting with the given locale's collation rules.
func NewShoppingService(repo repository.Repository, tag language.Tag) *ShoppingService {
	return &ShoppingService{
		repo:     repo,
		resolver: resolver.New(repo),
		agg:      shopping.NewAggregator(tag),
	}
}

// BuildList fetches and resolves every selected recipe, then merges their
// ingredients into one list. Any lookup or resolution failure aborts the
// whole build.
func (s *ShoppingService) BuildList(ctx context.Context, locale string, selections []Selection) (*List, error) {
	slog.Info("BuildList request", "locale", locale, "recipes", len(selections))

	if len(selections) == 0 {
		return nil, fmt.Errorf("no recipes selected")
	}

	recipes := make([]models.Recipe, len(selections))
	servings := make([]int, len(selections))
	for i, sel := range selections {
		recipe, err := s.repo.GetRecipeBySlug(ctx, sel.Slug, locale)
		if err != nil {
			slog.Error("BuildList lookup failed", "slug", sel.Slug, "error", err)
			return nil, err
		}
		resolved, err := s.resolver.Resolve(ctx, *recipe, locale)
		if err != nil {
			slog.Error("BuildList resolution failed", "slug", sel.Slug, "error", err)
			return nil, err
		}
		recipes[i] = resolved
		servings[i] = sel.Servings
	}

	items, err := s.agg.Aggregate(recipes, servings)
	if err != nil {
		slog.Error("BuildList aggregation failed", "error", err)
		return nil, err
	}

	slog.Info("BuildList successful", "recipes", len(recipes), "items", len(items))
	return &List{Items: items}, nil
}

// BuildListFromPayload builds a list from the encoded share payload.
func (s *ShoppingService) BuildListFromPayload(ctx context.Context, locale, encoded string) (*List, error) {
	payload, err := shopping.DecodePayload(encoded)
	if err != nil {
		slog.Error("BuildListFromPayload decode failed", "error", err)
		return nil, err
	}

	selections := make([]Selection, len(payload.Recipes))
	for i, r := range payload.Recipes {
		selections[i] = Selection{Slug: r.Slug, Servings: r.Servings}
	}

	list, err := s.BuildList(ctx, locale, selections)
	if err != nil {
		return nil, err
	}
	list.Title = payload.Title
	return list, nil
}
