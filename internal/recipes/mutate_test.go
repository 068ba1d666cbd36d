package recipes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"recipebook/internal/store"
	"recipebook/models"
)

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}

func line(name string, amount float64, unit models.MeasurementUnit) IngredientLine {
	return IngredientLine{Ingredient: models.Ingredient{Name: name}, Amount: amount, MeasurementUnit: unit}
}

func TestCreateRecipeWithIngredientsAssignsSharedKeys(t *testing.T) {
	t.Parallel()

	e := NewEngine(store.New())
	ctx := context.Background()

	detail, err := e.CreateRecipeWithIngredients(ctx,
		models.Recipe{ID: 99, Name: "Spaghetti Carbonara", Description: "Roman classic", Servings: 2},
		[]IngredientLine{
			line("Spaghetti", 200, models.Grams),
			line("Eggs", 3, models.Pieces),
		},
	)
	if err != nil {
		t.Fatalf("CreateRecipeWithIngredients() error = %v", err)
	}

	if detail.Recipe.ID != 1 {
		t.Fatalf("recipe ID = %d, want store-generated 1", detail.Recipe.ID)
	}
	if len(detail.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", detail.Lines)
	}
	if detail.Lines[0].Ingredient.ID != 2 || detail.Lines[1].Ingredient.ID != 3 {
		t.Fatalf("ingredient IDs = %d,%d, want 2,3", detail.Lines[0].Ingredient.ID, detail.Lines[1].Ingredient.ID)
	}
	if detail.Lines[0].Amount != 200 || detail.Lines[0].MeasurementUnit != models.Grams {
		t.Fatalf("amount/unit not passed through: %+v", detail.Lines[0])
	}

	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, nil, ptr("Spaghetti")), 1)
}

func TestCreateRecipeWithIngredientsReusesIngredientsIgnoringCase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx := context.Background()

	detail, err := e.CreateRecipeWithIngredients(ctx,
		models.Recipe{Name: "Crepes", Servings: 6},
		[]IngredientLine{
			line("EGGS", 2, models.Pieces),
			line("flour", 125, models.Grams),
			line("Butter", 1, models.Tablespoons),
		},
	)
	if err != nil {
		t.Fatalf("CreateRecipeWithIngredients() error = %v", err)
	}

	if detail.Lines[0].Ingredient.ID != 1 || detail.Lines[0].Ingredient.Name != "Eggs" {
		t.Fatalf("expected stored Eggs to be reused, got %+v", detail.Lines[0].Ingredient)
	}
	if detail.Lines[1].Ingredient.ID != 2 {
		t.Fatalf("expected stored Flour to be reused, got %+v", detail.Lines[1].Ingredient)
	}
	if detail.Lines[2].Ingredient.ID <= detail.Recipe.ID {
		t.Fatalf("new ingredient ID %d should follow recipe ID %d", detail.Lines[2].Ingredient.ID, detail.Recipe.ID)
	}
	if got := len(e.ListIngredients(ctx)); got != 5 {
		t.Fatalf("expected one new ingredient (5 total), got %d", got)
	}
	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, ptr(uint(1)), nil), 10, 11, detail.Recipe.ID)
}

func TestCreateRecipeWithIngredientsSkipsRepeatedIngredient(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	detail, err := e.CreateRecipeWithIngredients(context.Background(),
		models.Recipe{Name: "Salted Caramel"},
		[]IngredientLine{
			line("Salt", 1, models.Teaspoons),
			line("salt", 5, models.Grams),
			line("Sugar", 200, models.Grams),
		},
	)
	if err != nil {
		t.Fatalf("CreateRecipeWithIngredients() error = %v", err)
	}
	if len(detail.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", detail.Lines)
	}
	if detail.Lines[0].MeasurementUnit != models.Teaspoons {
		t.Fatalf("expected first salt line to win, got %+v", detail.Lines[0])
	}
}

func TestCreateRecipeWithIngredientsRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	ctx := context.Background()

	if _, err := e.CreateRecipeWithIngredients(ctx, models.Recipe{Name: "Shakshuka"}, []IngredientLine{line("Eggs", 4, models.Pieces)}); err != nil {
		t.Fatalf("first create error = %v", err)
	}
	before := e.Store().Export()

	_, err := e.CreateRecipeWithIngredients(ctx, models.Recipe{Name: "SHAKSHUKA"}, []IngredientLine{line("Peppers", 2, models.Pieces)})
	if !errorIs(err, ErrDuplicateRecipeName) || !errorIs(err, ErrConflict) {
		t.Fatalf("second create error = %v, want duplicate name conflict", err)
	}

	after := e.Store().Export()
	if len(after.Recipes) != 1 || len(after.Ingredients) != len(before.Ingredients) || len(after.RecipeIngredients) != len(before.RecipeIngredients) {
		t.Fatalf("rejected create mutated the store: before=%+v after=%+v", before, after)
	}
	if after.Recipes[0].Name != "Shakshuka" {
		t.Fatalf("expected the first recipe to remain, got %+v", after.Recipes[0])
	}
}

func TestCreateRecipeWithIngredientsConcurrentSameName(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	const attempts = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.CreateRecipeWithIngredients(context.Background(), models.Recipe{Name: "Risotto"}, []IngredientLine{line("Rice", 300, models.Grams)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errorIs(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("successes=%d conflicts=%d, want 1 and %d", successes, conflicts, attempts-1)
	}
	if got := len(e.ListIngredients(context.Background())); got != 1 {
		t.Fatalf("expected a single Rice ingredient, got %d", got)
	}
}

func TestDeleteIngredientWithSingleRecipeCascades(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, store.Snapshot{
		Ingredients: []models.Ingredient{{ID: 1, Name: "Eggs"}},
		Recipes:     []models.Recipe{{ID: 1, Name: "Scrambled Eggs"}},
		RecipeIngredients: []models.RecipeIngredient{
			{RecipeID: 1, IngredientID: 1, Amount: 2, MeasurementUnit: models.Milliliters},
		},
	})
	ctx := context.Background()

	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, ptr(uint(1)), nil), 1)

	removal, err := e.DeleteIngredient(ctx, ptr(uint(1)), nil)
	if err != nil {
		t.Fatalf("DeleteIngredient() error = %v", err)
	}
	if removal.Ingredient.ID != 1 || removal.CascadedRecipe == nil || removal.CascadedRecipe.ID != 1 {
		t.Fatalf("unexpected removal: %+v", removal)
	}

	snapshot := e.Store().Export()
	if len(snapshot.Recipes) != 0 || len(snapshot.Ingredients) != 0 || len(snapshot.RecipeIngredients) != 0 {
		t.Fatalf("expected an empty store, got %+v", snapshot)
	}
}

func TestDeleteIngredientCascadeLeavesOtherRowsOfTheRecipe(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx := context.Background()

	// Milk (4) is only used by Pancakes (11), which also uses Eggs and Flour.
	removal, err := e.DeleteIngredient(ctx, nil, ptr("Mil"))
	if err != nil {
		t.Fatalf("DeleteIngredient() error = %v", err)
	}
	if removal.CascadedRecipe == nil || removal.CascadedRecipe.ID != 11 {
		t.Fatalf("expected Pancakes to be removed, got %+v", removal)
	}

	snapshot := e.Store().Export()
	if len(snapshot.RecipeIngredients) != 3 {
		t.Fatalf("expected only the milk row to go, got %+v", snapshot.RecipeIngredients)
	}
	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, ptr(uint(2)), nil))
	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, ptr(uint(1)), nil), 10)
}

func TestDeleteIngredientUsedByManyRecipesFails(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	before := e.Store().Export()

	_, err := e.DeleteIngredient(context.Background(), ptr(uint(1)), nil)
	if !errorIs(err, ErrIngredientInUse) || !errorIs(err, ErrConflict) {
		t.Fatalf("DeleteIngredient() error = %v, want in-use conflict", err)
	}

	after := e.Store().Export()
	if len(after.Recipes) != len(before.Recipes) || len(after.Ingredients) != len(before.Ingredients) || len(after.RecipeIngredients) != len(before.RecipeIngredients) {
		t.Fatalf("failed delete mutated the store: before=%+v after=%+v", before, after)
	}
}

func TestDeleteIngredientWithoutAssociations(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())

	removal, err := e.DeleteIngredient(context.Background(), nil, ptr("Saff"))
	if err != nil {
		t.Fatalf("DeleteIngredient() error = %v", err)
	}
	if removal.Ingredient.ID != 3 || removal.CascadedRecipe != nil {
		t.Fatalf("unexpected removal: %+v", removal)
	}
	if got := len(e.Store().Export().Recipes); got != 3 {
		t.Fatalf("expected recipes untouched, got %d", got)
	}
}

func TestDeleteIngredientErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx := context.Background()

	cases := []struct {
		name string
		id   *uint
		text *string
		want error
	}{
		{"nothing supplied", nil, nil, ErrInvalidArgument},
		{"empty name", nil, ptr(""), ErrInvalidArgument},
		{"unknown id", ptr(uint(404)), nil, ErrNotFound},
		{"id of a recipe", ptr(uint(10)), nil, ErrNotFound},
		{"name is case-sensitive", nil, ptr("saffron"), ErrNotFound},
	}

	for _, tt := range cases {
		if _, err := e.DeleteIngredient(ctx, tt.id, tt.text); !errorIs(err, tt.want) {
			t.Fatalf("%s: DeleteIngredient() error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if got := len(e.ListIngredients(ctx)); got != 4 {
		t.Fatalf("failed deletes removed ingredients, %d left", got)
	}
}

func TestDeleteRecipeRemovesAssociationsAndKeepsIngredients(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx := context.Background()

	removed, err := e.DeleteRecipe(ctx, ptr(uint(11)), "")
	if err != nil {
		t.Fatalf("DeleteRecipe() error = %v", err)
	}
	if removed.Name != "Pancakes" {
		t.Fatalf("unexpected removed recipe: %+v", removed)
	}

	snapshot := e.Store().Export()
	for _, link := range snapshot.RecipeIngredients {
		if link.RecipeID == 11 {
			t.Fatalf("association %+v survived recipe deletion", link)
		}
	}
	if len(snapshot.Ingredients) != 4 {
		t.Fatalf("expected ingredients to be kept, got %+v", snapshot.Ingredients)
	}
	assertRecipeIDs(t, e.GetRecipesByIngredient(ctx, ptr(uint(1)), nil), 10)
}

func TestDeleteRecipeByNameIgnoresCase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())

	removed, err := e.DeleteRecipe(context.Background(), nil, "plain toast")
	if err != nil {
		t.Fatalf("DeleteRecipe() error = %v", err)
	}
	if removed.ID != 12 {
		t.Fatalf("removed recipe %d, want 12", removed.ID)
	}
}

func TestDeleteRecipeErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx := context.Background()

	cases := []struct {
		name string
		id   *uint
		text string
		want error
	}{
		{"nothing supplied", nil, "", ErrInvalidArgument},
		{"unknown id", ptr(uint(1)), "", ErrNotFound},
		{"id wins over a matching name", ptr(uint(404)), "Pancakes", ErrNotFound},
		{"name must match exactly", nil, "Pancake", ErrNotFound},
	}

	for _, tt := range cases {
		if _, err := e.DeleteRecipe(ctx, tt.id, tt.text); !errorIs(err, tt.want) {
			t.Fatalf("%s: DeleteRecipe() error = %v, want %v", tt.name, err, tt.want)
		}
	}
	if got := len(e.Store().Export().Recipes); got != 3 {
		t.Fatalf("failed deletes removed recipes, %d left", got)
	}
}

func TestMutationsHonourCancelledContext(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, kitchenSnapshot())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.CreateRecipeWithIngredients(ctx, models.Recipe{Name: "Late"}, nil); !errorIs(err, context.Canceled) {
		t.Fatalf("create error = %v, want context.Canceled", err)
	}
	if _, err := e.DeleteRecipe(ctx, ptr(uint(10)), ""); !errorIs(err, context.Canceled) {
		t.Fatalf("delete error = %v, want context.Canceled", err)
	}
}
