// Package repository defines the boundary through which the engine looks up
// recipes. The engine never cares where recipes live; the resolver only
// needs one operation.
package repository

import (
	"context"
	"errors"

	"github.com/mberg/souschef/internal/models"
)

// ErrNotFound is returned when no recipe exists for a slug and locale.
var ErrNotFound = errors.New("recipe not found")

// Repository looks up recipes by slug and locale. Implementations must be
// side-effect-free from the engine's point of view and safe for concurrent
// use.
type Repository interface {
	// GetRecipeBySlug returns the recipe stored under slug for the given
	// locale, or ErrNotFound.
	GetRecipeBySlug(ctx context.Context, slug, locale string) (*models.Recipe, error)
}
