package recipes

import (
	"context"
	"strings"
	"time"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

// GetRecipesByIngredient returns the recipes that use one ingredient. The
// ingredient is resolved by id when id is non-nil, otherwise as the first
// ingredient whose name contains name (case-sensitive). A nil name is "not
// supplied"; an empty one matches the first ingredient. Unresolvable input
// yields an empty set.
func (e *Engine) GetRecipesByIngredient(ctx context.Context, id *uint, name *string) RecipeSet {
	start := time.Now()
	result := make(RecipeSet)

	e.store.View(func(r store.Reader) {
		var (
			ingredient models.Ingredient
			found      bool
		)
		switch {
		case id != nil:
			ingredient, found = r.FindIngredient(*id)
		case name != nil:
			ingredient, found = firstIngredient(r, func(i models.Ingredient) bool {
				return strings.Contains(i.Name, *name)
			})
		}
		if found {
			result = recipesUsing(r, ingredient.ID)
		}
	})

	observe("get_recipes_by_ingredient", start, nil)
	lookupResults.WithLabelValues("get_recipes_by_ingredient").Observe(float64(result.Len()))
	applog.Debug(ctx, "recipes by ingredient", "id", deref(id), "name", deref(name), "matches", result.Len())
	return result
}

// GetRecipesByDietaryRestriction is the dietary-restriction entry point. No
// dietary data exists yet, so it resolves an ingredient exactly like
// GetRecipesByIngredient except that the name match ignores case and an empty
// name counts as not supplied.
func (e *Engine) GetRecipesByDietaryRestriction(ctx context.Context, id *uint, name *string) RecipeSet {
	start := time.Now()
	result := make(RecipeSet)

	e.store.View(func(r store.Reader) {
		var (
			ingredient models.Ingredient
			found      bool
		)
		switch {
		case id != nil:
			ingredient, found = r.FindIngredient(*id)
		case name != nil && *name != "":
			ingredient, found = firstIngredient(r, func(i models.Ingredient) bool {
				return containsFold(i.Name, *name)
			})
		}
		if found {
			result = recipesUsing(r, ingredient.ID)
		}
	})

	observe("get_recipes_by_dietary_restriction", start, nil)
	lookupResults.WithLabelValues("get_recipes_by_dietary_restriction").Observe(float64(result.Len()))
	applog.Debug(ctx, "recipes by dietary restriction", "id", deref(id), "name", deref(name), "matches", result.Len())
	return result
}

// GetRecipes looks a recipe up by id, where 0 means not supplied. When no
// recipe matches the id and name is non-empty, every recipe whose name
// contains name (ignoring case) is returned.
func (e *Engine) GetRecipes(ctx context.Context, id uint, name string) RecipeSet {
	start := time.Now()
	result := make(RecipeSet)

	e.store.View(func(r store.Reader) {
		if id != 0 {
			if recipe, ok := r.FindRecipe(id); ok {
				result.Add(recipe)
				return
			}
		}
		if name == "" {
			return
		}
		for _, recipe := range r.Recipes() {
			if containsFold(recipe.Name, name) {
				result.Add(recipe)
			}
		}
	})

	observe("get_recipes", start, nil)
	lookupResults.WithLabelValues("get_recipes").Observe(float64(result.Len()))
	applog.Debug(ctx, "recipes lookup", "id", id, "name", name, "matches", result.Len())
	return result
}

// RecipeDetail returns a recipe with its ingredient lines in association
// order. Rows pointing at removed ingredients are skipped.
func (e *Engine) RecipeDetail(ctx context.Context, id uint) (RecipeDetail, error) {
	start := time.Now()
	var (
		detail RecipeDetail
		err    error
	)

	e.store.View(func(r store.Reader) {
		recipe, ok := r.FindRecipe(id)
		if !ok {
			err = ErrRecipeNotFound
			return
		}
		detail = RecipeDetail{Recipe: recipe, Lines: linesFor(r, recipe.ID)}
	})

	observe("recipe_detail", start, err)
	if err != nil {
		applog.Debug(ctx, "recipe detail lookup failed", "id", id, "error", err)
	}
	return detail, err
}

// ListIngredients returns every ingredient in insertion order.
func (e *Engine) ListIngredients(ctx context.Context) []models.Ingredient {
	out := []models.Ingredient{}
	e.store.View(func(r store.Reader) {
		out = append(out, r.Ingredients()...)
	})
	applog.Debug(ctx, "listed ingredients", "count", len(out))
	return out
}

// ListRecipes returns every recipe in insertion order.
func (e *Engine) ListRecipes(ctx context.Context) []models.Recipe {
	out := []models.Recipe{}
	e.store.View(func(r store.Reader) {
		out = append(out, r.Recipes()...)
	})
	applog.Debug(ctx, "listed recipes", "count", len(out))
	return out
}

// RecipeExistsByName fails with ErrDuplicateRecipeName when a recipe with the
// same name, ignoring case, is already stored.
func (e *Engine) RecipeExistsByName(ctx context.Context, name string) error {
	var err error
	e.store.View(func(r store.Reader) {
		err = ensureUniqueRecipeName(r, name)
	})
	if err != nil {
		applog.Debug(ctx, "recipe name taken", "name", name)
	}
	return err
}

func ensureUniqueRecipeName(r store.Reader, name string) error {
	if _, exists := firstRecipe(r, func(recipe models.Recipe) bool {
		return strings.EqualFold(recipe.Name, name)
	}); exists {
		return ErrDuplicateRecipeName
	}
	return nil
}

func linesFor(r store.Reader, recipeID uint) []IngredientLine {
	links := linksForRecipe(r, recipeID)
	lines := make([]IngredientLine, 0, len(links))
	for _, link := range links {
		ingredient, ok := r.FindIngredient(link.IngredientID)
		if !ok {
			continue
		}
		lines = append(lines, IngredientLine{
			Ingredient:      ingredient,
			Amount:          link.Amount,
			MeasurementUnit: link.MeasurementUnit,
		})
	}
	return lines
}
