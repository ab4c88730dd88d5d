// Package memory is an in-memory recipe repository, used by tests and by
// anything that assembles recipes programmatically.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository"
)

// Store holds recipes keyed by locale and slug. The zero value is not
// usable; construct with New.
type Store struct {
	mu      sync.RWMutex
	recipes map[string]map[string]models.Recipe // locale -> slug -> recipe
}

// New returns an empty store.
func New() *Store {
	return &Store{recipes: make(map[string]map[string]models.Recipe)}
}

// Add stores a recipe under the given locale, replacing any previous entry
// with the same slug.
func (s *Store) Add(locale string, recipe models.Recipe) error {
	if !models.ValidSlug(recipe.Slug) {
		return fmt.Errorf("invalid recipe slug %q", recipe.Slug)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recipes[locale] == nil {
		s.recipes[locale] = make(map[string]models.Recipe)
	}
	s.recipes[locale][recipe.Slug] = recipe.Clone()
	return nil
}

// GetRecipeBySlug implements repository.Repository. Callers receive a deep
// copy; the stored recipe is never aliased.
func (s *Store) GetRecipeBySlug(ctx context.Context, slug, locale string) (*models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipe, ok := s.recipes[locale][slug]
	if !ok {
		return nil, fmt.Errorf("%q (%s): %w", slug, locale, repository.ErrNotFound)
	}
	clone := recipe.Clone()
	return &clone, nil
}

var _ repository.Repository = (*Store)(nil)
