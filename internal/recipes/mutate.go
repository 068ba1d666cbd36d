package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

// CreateRecipeWithIngredients stores a new recipe and links it to the given
// ingredients. An ingredient whose name matches a stored one (ignoring case)
// reuses that ingredient; any other is stored as new. IDs on the inputs are
// ignored and replaced by store-generated keys. Amounts and units are passed
// through as given.
//
// The recipe name must not collide with an existing recipe, ignoring case;
// that check runs before anything is written. The whole operation is one store
// transaction and is not visible until it has completed.
func (e *Engine) CreateRecipeWithIngredients(ctx context.Context, recipe models.Recipe, lines []IngredientLine) (RecipeDetail, error) {
	start := time.Now()
	var detail RecipeDetail

	err := e.store.Update(ctx, func(tx *store.Tx) error {
		if err := ensureUniqueRecipeName(tx, recipe.Name); err != nil {
			return err
		}

		recipe.ID = tx.GeneratePrimaryKey()
		if err := tx.AddRecipe(recipe); err != nil {
			return fmt.Errorf("add recipe: %w", err)
		}

		for _, line := range lines {
			ingredient, found := firstIngredient(tx, func(i models.Ingredient) bool {
				return strings.EqualFold(i.Name, line.Ingredient.Name)
			})
			if !found {
				ingredient = line.Ingredient
				ingredient.ID = tx.GeneratePrimaryKey()
				if err := tx.AddIngredient(ingredient); err != nil {
					return fmt.Errorf("add ingredient: %w", err)
				}
				applog.Debug(ctx, "ingredient created", "id", ingredient.ID, "name", ingredient.Name)
			}

			link := models.RecipeIngredient{
				RecipeID:        recipe.ID,
				IngredientID:    ingredient.ID,
				Amount:          line.Amount,
				MeasurementUnit: line.MeasurementUnit,
			}
			if err := tx.AddRecipeIngredient(link); err != nil {
				// The same ingredient listed twice: the first line wins.
				applog.Debug(ctx, "duplicate ingredient line skipped", "recipe", recipe.ID, "ingredient", ingredient.ID)
				continue
			}
		}

		detail = RecipeDetail{Recipe: recipe, Lines: linesFor(tx, recipe.ID)}
		return nil
	})

	observe("create_recipe_with_ingredients", start, err)
	if err != nil {
		applog.Info(ctx, "recipe creation rejected", "name", recipe.Name, "reason", Kind(err), "error", err)
		return RecipeDetail{}, err
	}

	applog.Info(ctx, "recipe created", "id", detail.Recipe.ID, "name", detail.Recipe.Name, "ingredients", len(detail.Lines))
	e.recordCatalogueSize(ctx)
	return detail, nil
}

// IngredientRemoval describes what DeleteIngredient removed.
type IngredientRemoval struct {
	Ingredient models.Ingredient `json:"ingredient"`
	// CascadedRecipe is set when the ingredient belonged to exactly one recipe,
	// which was removed together with it.
	CascadedRecipe *models.Recipe `json:"cascaded_recipe,omitempty"`
}

// DeleteIngredient removes one ingredient, resolved by exact id when id is
// non-nil, otherwise as the first ingredient whose name contains name
// (case-sensitive).
//
// An ingredient used by more than one recipe is not deleted. An ingredient
// used by exactly one recipe takes that recipe and its association row with
// it; any other rows of that recipe are left in place.
func (e *Engine) DeleteIngredient(ctx context.Context, id *uint, name *string) (IngredientRemoval, error) {
	start := time.Now()
	if id == nil && (name == nil || *name == "") {
		observe("delete_ingredient", start, ErrMissingSelector)
		return IngredientRemoval{}, ErrMissingSelector
	}

	var removal IngredientRemoval
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		var (
			target models.Ingredient
			found  bool
		)
		if id != nil {
			target, found = tx.FindIngredient(*id)
		} else {
			target, found = firstIngredient(tx, func(i models.Ingredient) bool {
				return strings.Contains(i.Name, *name)
			})
		}
		if !found {
			return ErrIngredientNotFound
		}

		links := linksForIngredient(tx, target.ID)
		if len(links) > 1 {
			return fmt.Errorf("ingredient %d: %w", target.ID, ErrIngredientInUse)
		}

		if len(links) == 1 {
			link := links[0]
			if recipe, ok := tx.FindRecipe(link.RecipeID); ok {
				tx.RemoveRecipe(recipe.ID)
				removal.CascadedRecipe = &recipe
			}
			tx.RemoveRecipeIngredient(link.RecipeID, link.IngredientID)
		}

		tx.RemoveIngredient(target.ID)
		removal.Ingredient = target
		return nil
	})

	observe("delete_ingredient", start, err)
	if err != nil {
		applog.Info(ctx, "ingredient deletion rejected", "id", deref(id), "name", deref(name), "reason", Kind(err))
		return IngredientRemoval{}, err
	}

	args := []any{"id", removal.Ingredient.ID, "name", removal.Ingredient.Name}
	if removal.CascadedRecipe != nil {
		args = append(args, "cascadedRecipe", removal.CascadedRecipe.ID)
	}
	applog.Info(ctx, "ingredient deleted", args...)
	e.recordCatalogueSize(ctx)
	return removal, nil
}

// DeleteRecipe removes a recipe, resolved by exact id when id is non-nil,
// otherwise by name ignoring case, together with all of its association rows.
// Ingredients are kept even when no recipe uses them any more.
func (e *Engine) DeleteRecipe(ctx context.Context, id *uint, name string) (models.Recipe, error) {
	start := time.Now()
	if id == nil && name == "" {
		observe("delete_recipe", start, ErrMissingSelector)
		return models.Recipe{}, ErrMissingSelector
	}

	var (
		removed  models.Recipe
		unlinked int
	)
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		var found bool
		if id != nil {
			removed, found = tx.FindRecipe(*id)
		} else {
			removed, found = firstRecipe(tx, func(r models.Recipe) bool {
				return strings.EqualFold(r.Name, name)
			})
		}
		if !found {
			return ErrRecipeNotFound
		}

		for _, link := range linksForRecipe(tx, removed.ID) {
			if tx.RemoveRecipeIngredient(link.RecipeID, link.IngredientID) {
				unlinked++
			}
		}
		tx.RemoveRecipe(removed.ID)
		return nil
	})

	observe("delete_recipe", start, err)
	if err != nil {
		applog.Info(ctx, "recipe deletion rejected", "id", deref(id), "name", name, "reason", Kind(err))
		return models.Recipe{}, err
	}

	applog.Info(ctx, "recipe deleted", "id", removed.ID, "name", removed.Name, "unlinked", unlinked)
	e.recordCatalogueSize(ctx)
	return removed, nil
}
