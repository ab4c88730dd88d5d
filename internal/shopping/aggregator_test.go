package shopping

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/mberg/souschef/internal/models"
)

func fptr(v float64) *float64 { return &v }

func recipeWith(slug, title string, servings int, ings ...models.Ingredient) models.Recipe {
	return models.Recipe{Slug: slug, Title: title, Servings: servings, Ingredients: ings}
}

func findItem(t *testing.T, items []Item, name string) Item {
	t.Helper()
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("no item named %q in %d items", name, len(items))
	return Item{}
}

func TestAggregateMergesSameUnit(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("carbonara", "Carbonara", 4,
			models.Ingredient{Quantity: fptr(200), Unit: "g", Name: "bacon", Scalable: true}),
		recipeWith("quiche", "Quiche", 4,
			models.Ingredient{Quantity: fptr(100), Unit: "g", Name: "bacon", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{4, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	bacon := items[0]
	if bacon.Name != "bacon" {
		t.Errorf("name = %q, want bacon", bacon.Name)
	}
	if bacon.Quantity == nil || *bacon.Quantity != 300 {
		t.Errorf("quantity = %v, want 300", bacon.Quantity)
	}
	if bacon.Unit != "g" {
		t.Errorf("unit = %q, want g", bacon.Unit)
	}
	if len(bacon.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(bacon.Sources))
	}
	if bacon.Sources[0].Slug != "carbonara" || bacon.Sources[1].Slug != "quiche" {
		t.Errorf("sources = %v, want carbonara then quiche", bacon.Sources)
	}
}

func TestAggregateScalesPerRecipe(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("soup", "Soup", 4,
			models.Ingredient{Quantity: fptr(2), Unit: "dl", Name: "cream", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cream := findItem(t, items, "cream")
	if cream.Quantity == nil || math.Abs(*cream.Quantity-4) > 1e-9 {
		t.Errorf("quantity = %v, want 4 (2 dl doubled)", cream.Quantity)
	}
}

func TestAggregateCompatibleUnitsCollapse(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2,
			models.Ingredient{Quantity: fptr(500), Unit: "ml", Name: "stock", Scalable: true}),
		recipeWith("b", "B", 2,
			models.Ingredient{Quantity: fptr(1), Unit: "l", Name: "stock", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stock := findItem(t, items, "stock")
	if stock.Quantity == nil || math.Abs(*stock.Quantity-1.5) > 1e-9 {
		t.Errorf("quantity = %v, want 1.5", stock.Quantity)
	}
	if stock.Unit != "L" {
		t.Errorf("unit = %q, want L", stock.Unit)
	}
}

func TestAggregateIncompatibleUnitsKeepLeftoverNote(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2,
			models.Ingredient{Quantity: fptr(2), Unit: "cups", Name: "flour", Scalable: true}),
		recipeWith("b", "B", 2,
			models.Ingredient{Quantity: fptr(200), Unit: "g", Name: "flour", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flour := findItem(t, items, "flour")
	if flour.Quantity == nil || *flour.Quantity != 2 {
		t.Errorf("headline quantity = %v, want 2", flour.Quantity)
	}
	if flour.Unit != "cups" {
		t.Errorf("headline unit = %q, want cups", flour.Unit)
	}
	if !strings.Contains(flour.Notes, "also needed: 200 g") {
		t.Errorf("notes = %q, want an \"also needed: 200 g\" entry", flour.Notes)
	}
}

func TestAggregateLeftoverNoteKeepsRanges(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2,
			models.Ingredient{Quantity: fptr(200), Unit: "g", Name: "flour", Scalable: true}),
		recipeWith("b", "B", 2,
			models.Ingredient{Quantity: fptr(1), QuantityMax: fptr(2), Unit: "tbsp", Name: "flour", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flour := findItem(t, items, "flour")
	if !strings.Contains(flour.Notes, "also needed: 1-2 tbsp") {
		t.Errorf("notes = %q, want an \"also needed: 1-2 tbsp\" entry", flour.Notes)
	}
}

func TestAggregateQuantityless(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2, models.Ingredient{Name: "salt", Notes: "to taste"}),
		recipeWith("b", "B", 2, models.Ingredient{Name: "Salt", Notes: "to taste"}),
	}

	items, err := a.Aggregate(recipes, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	salt := findItem(t, items, "salt")
	if salt.Quantity != nil {
		t.Errorf("quantity = %v, want nil", salt.Quantity)
	}
	if salt.DisplayName != "salt" {
		t.Errorf("displayName = %q, want first-seen casing \"salt\"", salt.DisplayName)
	}
	if salt.Notes != "to taste" {
		t.Errorf("notes = %q, want deduplicated \"to taste\"", salt.Notes)
	}
}

func TestAggregateGroupsCaseInsensitively(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2, models.Ingredient{Quantity: fptr(1), Name: "Onion", Scalable: true}),
		recipeWith("b", "B", 2, models.Ingredient{Quantity: fptr(2), Name: "onion ", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	onion := items[0]
	if onion.DisplayName != "Onion" {
		t.Errorf("displayName = %q, want \"Onion\"", onion.DisplayName)
	}
	if onion.Quantity == nil || *onion.Quantity != 3 {
		t.Errorf("quantity = %v, want 3", onion.Quantity)
	}
}

func TestAggregateIncludesComponentIngredients(t *testing.T) {
	a := NewAggregator(language.English)
	recipe := models.Recipe{
		Slug: "burger", Title: "Burger", Servings: 2,
		Ingredients: []models.Ingredient{{Quantity: fptr(2), Name: "buns", Scalable: true}},
		Components: []models.Component{{
			Name:        "Patty",
			Ingredients: []models.Ingredient{{Quantity: fptr(300), Unit: "g", Name: "beef", Scalable: true}},
		}},
	}

	items, err := a.Aggregate([]models.Recipe{recipe}, []int{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	beef := findItem(t, items, "beef")
	if beef.Quantity == nil || *beef.Quantity != 600 {
		t.Errorf("beef quantity = %v, want 600", beef.Quantity)
	}
}

func TestAggregateScalesBorrowedComponentsAgainstSource(t *testing.T) {
	a := NewAggregator(language.English)
	// Resolved reference: the sauce quantities were written for the source
	// recipe's 2 servings, not the including recipe's 4.
	recipe := models.Recipe{
		Slug: "lasagna", Title: "Lasagna", Servings: 4,
		Ingredients: []models.Ingredient{{Quantity: fptr(12), Name: "lasagna sheets", Scalable: true}},
		Components: []models.Component{{
			Name: "Sauce",
			Reference: &models.ComponentReference{
				Type:           models.ReferenceComponent,
				RecipeSlug:     "marinara",
				ComponentSlug:  "sauce",
				SourceServings: 2,
			},
			Ingredients: []models.Ingredient{{Quantity: fptr(100), Unit: "g", Name: "tomatoes", Scalable: true}},
		}},
	}

	items, err := a.Aggregate([]models.Recipe{recipe}, []int{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tomatoes := findItem(t, items, "tomatoes")
	if tomatoes.Quantity == nil || *tomatoes.Quantity != 200 {
		t.Errorf("tomatoes quantity = %v, want 200 (100 g for 2 source servings, doubled)", tomatoes.Quantity)
	}
	sheets := findItem(t, items, "lasagna sheets")
	if sheets.Quantity == nil || *sheets.Quantity != 12 {
		t.Errorf("sheets quantity = %v, want 12", sheets.Quantity)
	}
}

func TestAggregateSortsAlphabetically(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{
		recipeWith("a", "A", 2,
			models.Ingredient{Quantity: fptr(1), Name: "zucchini", Scalable: true},
			models.Ingredient{Quantity: fptr(1), Name: "apple", Scalable: true},
			models.Ingredient{Quantity: fptr(1), Name: "Mango", Scalable: true}),
	}

	items, err := a.Aggregate(recipes, []int{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.DisplayName)
	}
	want := []string{"apple", "Mango", "zucchini"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestAggregateStableIDs(t *testing.T) {
	a := NewAggregator(language.English)
	r1 := recipeWith("a", "A", 2, models.Ingredient{Quantity: fptr(100), Unit: "g", Name: "rice", Scalable: true})
	r2 := recipeWith("b", "B", 2, models.Ingredient{Quantity: fptr(200), Unit: "g", Name: "rice", Scalable: true})

	forward, err := a.Aggregate([]models.Recipe{r1, r2}, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backward, err := a.Aggregate([]models.Recipe{r2, r1}, []int{2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forward[0].ID == "" {
		t.Fatal("expected non-empty id")
	}
	if forward[0].ID != backward[0].ID {
		t.Errorf("id depends on recipe order: %q vs %q", forward[0].ID, backward[0].ID)
	}
}

func TestAggregateAssociativity(t *testing.T) {
	a := NewAggregator(language.English)
	mk := func(slug string, grams float64) models.Recipe {
		return recipeWith(slug, strings.ToUpper(slug), 2,
			models.Ingredient{Quantity: fptr(grams), Unit: "g", Name: "butter", Scalable: true})
	}
	r1, r2, r3 := mk("a", 100), mk("b", 200), mk("c", 300)

	all, err := a.Aggregate([]models.Recipe{r1, r2, r3}, []int{2, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	butter := findItem(t, all, "butter")
	if butter.Quantity == nil || *butter.Quantity != 600 {
		t.Errorf("quantity = %v, want 600 regardless of grouping", butter.Quantity)
	}
	if len(butter.Sources) != 3 {
		t.Errorf("got %d sources, want 3", len(butter.Sources))
	}
}

func TestAggregateValidation(t *testing.T) {
	a := NewAggregator(language.English)
	recipes := []models.Recipe{recipeWith("a", "A", 2)}

	if _, err := a.Aggregate(recipes, []int{2, 4}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := a.Aggregate(recipes, []int{0}); err == nil {
		t.Error("expected error for non-positive servings")
	}
}
