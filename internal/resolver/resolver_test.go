package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository/memory"
)

const locale = "en"

func fptr(v float64) *float64 { return &v }

func newStore(t *testing.T, recipes ...models.Recipe) *memory.Store {
	t.Helper()
	store := memory.New()
	for _, r := range recipes {
		require.NoError(t, store.Add(locale, r))
	}
	return store
}

func sauceRecipe() models.Recipe {
	return models.Recipe{
		Slug: "base", Title: "Base", Servings: 2,
		Components: []models.Component{{
			Name: "Tomato sauce", Slug: "sauce",
			PrepTime: 5, CookTime: 25,
			Ingredients: []models.Ingredient{
				{Quantity: fptr(400), Unit: "g", Name: "tomatoes", Scalable: true},
			},
			Instructions: []string{"Simmer for {{25 minutes}}."},
		}},
	}
}

func TestResolveCopiesReferencedComponent(t *testing.T) {
	target := models.Recipe{
		Slug: "lasagna", Title: "Lasagna", Servings: 4,
		Components: []models.Component{{
			Name: "Sauce (from the base recipe)", Slug: "sauce",
			Reference: &models.ComponentReference{
				Type: models.ReferenceComponent, RecipeSlug: "base", ComponentSlug: "sauce",
			},
		}},
	}
	r := New(newStore(t, sauceRecipe(), target))

	got, err := r.Resolve(context.Background(), target, locale)
	require.NoError(t, err)
	require.Len(t, got.Components, 1)

	comp := got.Components[0]
	require.Equal(t, "Sauce (from the base recipe)", comp.Name, "target keeps its own component name")
	require.Equal(t, 5, comp.PrepTime)
	require.Equal(t, 25, comp.CookTime)
	require.Len(t, comp.Ingredients, 1)
	require.Equal(t, "tomatoes", comp.Ingredients[0].Name)
	require.Equal(t, []string{"Simmer for {{25 minutes}}."}, comp.Instructions)
	require.NotNil(t, comp.Reference)
	require.Equal(t, 2, comp.Reference.SourceServings, "sourceServings comes from the source recipe")
}

func TestResolveDeepCopies(t *testing.T) {
	target := models.Recipe{
		Slug: "lasagna", Servings: 4,
		Components: []models.Component{{
			Name: "Sauce", Slug: "sauce",
			Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "sauce"},
		}},
	}
	store := newStore(t, sauceRecipe())
	r := New(store)

	got, err := r.Resolve(context.Background(), target, locale)
	require.NoError(t, err)

	// Mutating the resolved copy must not reach back into the store.
	got.Components[0].Ingredients[0].Name = "mutated"
	source, err := store.GetRecipeBySlug(context.Background(), "base", locale)
	require.NoError(t, err)
	require.Equal(t, "tomatoes", source.Components[0].Ingredients[0].Name)
}

func TestResolveNoReferencesIsNoop(t *testing.T) {
	recipe := models.Recipe{
		Slug: "soup", Servings: 2, TotalTime: 999,
		Ingredients:  []models.Ingredient{{Name: "water"}},
		Instructions: []string{"Boil."},
	}
	r := New(newStore(t))

	got, err := r.Resolve(context.Background(), recipe, locale)
	require.NoError(t, err)
	if diff := cmp.Diff(recipe, got); diff != "" {
		t.Errorf("recipe changed (-want +got):\n%s", diff)
	}
}

func TestResolvePreservesComponentOrder(t *testing.T) {
	target := models.Recipe{
		Slug: "plate", Servings: 2,
		Components: []models.Component{
			{Name: "Local first", Slug: "local", Ingredients: []models.Ingredient{{Name: "rice"}}},
			{
				Name: "Borrowed second", Slug: "borrowed",
				Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "sauce"},
			},
			{Name: "Local third", Slug: "local-too", Instructions: []string{"Plate it."}},
		},
	}
	r := New(newStore(t, sauceRecipe()))

	got, err := r.Resolve(context.Background(), target, locale)
	require.NoError(t, err)
	require.Len(t, got.Components, 3)
	require.Equal(t, "Local first", got.Components[0].Name)
	require.Equal(t, "Borrowed second", got.Components[1].Name)
	require.Equal(t, "Local third", got.Components[2].Name)
	require.Equal(t, []models.Ingredient{{Name: "rice"}}, got.Components[0].Ingredients)
}

func TestResolveChain(t *testing.T) {
	// a -> b -> c: c must resolve before b before a.
	c := models.Recipe{
		Slug: "c", Servings: 2,
		Components: []models.Component{{
			Name: "Stock", Slug: "stock", CookTime: 60,
			Ingredients: []models.Ingredient{{Name: "bones"}},
		}},
	}
	b := models.Recipe{
		Slug: "b", Servings: 4,
		Components: []models.Component{{
			Name: "Broth", Slug: "broth",
			Reference: &models.ComponentReference{RecipeSlug: "c", ComponentSlug: "stock"},
		}},
	}
	a := models.Recipe{
		Slug: "a", Servings: 6,
		Components: []models.Component{{
			Name: "Soup base", Slug: "soup-base",
			Reference: &models.ComponentReference{RecipeSlug: "b", ComponentSlug: "broth"},
		}},
	}
	r := New(newStore(t, a, b, c))

	got, err := r.Resolve(context.Background(), a, locale)
	require.NoError(t, err)
	comp := got.Components[0]
	require.Equal(t, "Soup base", comp.Name)
	require.Equal(t, []models.Ingredient{{Name: "bones"}}, comp.Ingredients)
	require.Equal(t, 4, comp.Reference.SourceServings, "servings come from b, the directly referenced recipe")
}

func TestResolveCycleFails(t *testing.T) {
	r1 := models.Recipe{
		Slug: "r-one", Servings: 2,
		Components: []models.Component{{
			Name: "One", Slug: "one",
			Reference: &models.ComponentReference{RecipeSlug: "r-two", ComponentSlug: "two"},
		}},
	}
	r2 := models.Recipe{
		Slug: "r-two", Servings: 2,
		Components: []models.Component{{
			Name: "Two", Slug: "two",
			Reference: &models.ComponentReference{RecipeSlug: "r-one", ComponentSlug: "one"},
		}},
	}
	r := New(newStore(t, r1, r2))

	for _, entry := range []models.Recipe{r1, r2} {
		_, err := r.Resolve(context.Background(), entry, locale)
		require.Error(t, err, "entry point %s", entry.Slug)

		var circular *CircularReferenceError
		require.ErrorAs(t, err, &circular)
		require.True(t, IsResolutionError(err))
		require.GreaterOrEqual(t, len(circular.Cycle), 3)
		require.Equal(t, circular.Cycle[0], circular.Cycle[len(circular.Cycle)-1])
	}
}

func TestResolveSelfReferenceFails(t *testing.T) {
	selfish := models.Recipe{
		Slug: "selfish", Servings: 2,
		Components: []models.Component{{
			Name: "Loop", Slug: "loop",
			Reference: &models.ComponentReference{RecipeSlug: "selfish", ComponentSlug: "loop"},
		}},
	}
	r := New(newStore(t, selfish))

	_, err := r.Resolve(context.Background(), selfish, locale)
	var circular *CircularReferenceError
	require.ErrorAs(t, err, &circular)
}

func TestResolveDepthExceeded(t *testing.T) {
	// chain-0 -> chain-1 -> chain-2 -> chain-3, resolved with a depth bound
	// of 2: the guard trips when chain-2 (itself still referencing) is
	// entered with two recipes already on the stack.
	recipes := make([]models.Recipe, 4)
	for i := range recipes {
		recipes[i] = models.Recipe{
			Slug: slugN(i), Servings: 2,
			Components: []models.Component{{Name: "Step", Slug: "step", Ingredients: []models.Ingredient{{Name: "x"}}}},
		}
		if i < 3 {
			recipes[i].Components[0].Ingredients = nil
			recipes[i].Components[0].Reference = &models.ComponentReference{
				RecipeSlug: slugN(i + 1), ComponentSlug: "step",
			}
		}
	}
	r := New(newStore(t, recipes...), WithMaxDepth(2))

	_, err := r.Resolve(context.Background(), recipes[0], locale)
	var depth *DepthExceededError
	require.ErrorAs(t, err, &depth)
	require.Equal(t, 2, depth.MaxDepth)
	require.True(t, IsResolutionError(err))
}

func slugN(i int) string {
	return "chain-" + string(rune('0'+i))
}

func TestResolveMissingRecipe(t *testing.T) {
	target := models.Recipe{
		Slug: "lonely", Servings: 2,
		Components: []models.Component{{
			Name: "Ghost", Slug: "ghost",
			Reference: &models.ComponentReference{RecipeSlug: "does-not-exist", ComponentSlug: "x"},
		}},
	}
	r := New(newStore(t))

	_, err := r.Resolve(context.Background(), target, locale)
	var notFound *RecipeNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "does-not-exist", notFound.Slug)
}

func TestResolveMissingComponentListsAvailable(t *testing.T) {
	target := models.Recipe{
		Slug: "lasagna", Servings: 4,
		Components: []models.Component{{
			Name: "Sauce", Slug: "sauce",
			Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "bechamel"},
		}},
	}
	r := New(newStore(t, sauceRecipe()))

	_, err := r.Resolve(context.Background(), target, locale)
	var missing *ComponentNotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"sauce"}, missing.Available)
	require.True(t, strings.Contains(err.Error(), "sauce"), "message should hint at available slugs")
}

func TestResolveRecomputesTotalTime(t *testing.T) {
	// Active time 5+25=30 for the borrowed sauce; the local component waits
	// 60 which dominates its own 10 active minutes.
	target := models.Recipe{
		Slug: "lasagna", Servings: 4, TotalTime: 1,
		Components: []models.Component{
			{
				Name: "Sauce", Slug: "sauce",
				Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "sauce"},
			},
			{Name: "Rest", Slug: "rest", PrepTime: 10, WaitTime: 60, Instructions: []string{"Wait."}},
		},
	}
	r := New(newStore(t, sauceRecipe()))

	got, err := r.Resolve(context.Background(), target, locale)
	require.NoError(t, err)
	require.Equal(t, 90, got.TotalTime)
}

func TestResolveConcurrentCallsAreIndependent(t *testing.T) {
	target := models.Recipe{
		Slug: "lasagna", Servings: 4,
		Components: []models.Component{{
			Name: "Sauce", Slug: "sauce",
			Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "sauce"},
		}},
	}
	r := New(newStore(t, sauceRecipe()))

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := r.Resolve(context.Background(), target, locale)
			errs <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-errs)
	}
}

func TestResolveRepositoryErrorPropagates(t *testing.T) {
	target := models.Recipe{
		Slug: "lasagna", Servings: 4,
		Components: []models.Component{{
			Name: "Sauce", Slug: "sauce",
			Reference: &models.ComponentReference{RecipeSlug: "base", ComponentSlug: "sauce"},
		}},
	}
	r := New(failingRepo{})

	_, err := r.Resolve(context.Background(), target, locale)
	require.Error(t, err)
	require.False(t, IsResolutionError(err), "repository failures are not resolution errors")
}

type failingRepo struct{}

func (failingRepo) GetRecipeBySlug(ctx context.Context, slug, locale string) (*models.Recipe, error) {
	return nil, errors.New("backend down")
}
