// Package recipes answers recipe lookups and applies catalogue mutations while
// keeping recipes, ingredients and their association rows consistent.
package recipes

import (
	"cmp"
	"context"
	"slices"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

// Engine is the query and mutation entry point over a single store. It holds
// no state besides the store reference; every operation is one store
// transaction or read.
type Engine struct {
	store *store.Store
}

// NewEngine wraps the provided store. A nil store gets a fresh empty one.
func NewEngine(s *store.Store) *Engine {
	if s == nil {
		s = store.New()
	}
	return &Engine{store: s}
}

// Store exposes the backing store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// RecipeSet is a set of recipes keyed by primary key.
type RecipeSet map[uint]models.Recipe

// Add inserts r, replacing any recipe with the same ID.
func (s RecipeSet) Add(r models.Recipe) {
	s[r.ID] = r
}

// Contains reports whether a recipe with the given ID is in the set.
func (s RecipeSet) Contains(id uint) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of recipes in the set.
func (s RecipeSet) Len() int {
	return len(s)
}

// Sorted returns the recipes ordered by ID.
func (s RecipeSet) Sorted() []models.Recipe {
	out := make([]models.Recipe, 0, len(s))
	for _, r := range s {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b models.Recipe) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// IngredientLine is one ingredient of a recipe together with its quantity.
type IngredientLine struct {
	Ingredient      models.Ingredient      `json:"ingredient"`
	Amount          float64                `json:"amount"`
	MeasurementUnit models.MeasurementUnit `json:"measurement_unit"`
}

// RecipeDetail is a recipe with its resolved ingredient lines.
type RecipeDetail struct {
	Recipe models.Recipe    `json:"recipe"`
	Lines  []IngredientLine `json:"ingredients"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func firstIngredient(r store.Reader, match func(models.Ingredient) bool) (models.Ingredient, bool) {
	for _, ingredient := range r.Ingredients() {
		if match(ingredient) {
			return ingredient, true
		}
	}
	return models.Ingredient{}, false
}

func firstRecipe(r store.Reader, match func(models.Recipe) bool) (models.Recipe, bool) {
	for _, recipe := range r.Recipes() {
		if match(recipe) {
			return recipe, true
		}
	}
	return models.Recipe{}, false
}

func linksForIngredient(r store.Reader, ingredientID uint) []models.RecipeIngredient {
	var out []models.RecipeIngredient
	for _, link := range r.RecipeIngredients() {
		if link.IngredientID == ingredientID {
			out = append(out, link)
		}
	}
	return out
}

func linksForRecipe(r store.Reader, recipeID uint) []models.RecipeIngredient {
	var out []models.RecipeIngredient
	for _, link := range r.RecipeIngredients() {
		if link.RecipeID == recipeID {
			out = append(out, link)
		}
	}
	return out
}

// recipesUsing returns the existing recipes referenced by the ingredient's
// association rows. Rows pointing at removed recipes are ignored.
func recipesUsing(r store.Reader, ingredientID uint) RecipeSet {
	recipeIDs := make(map[uint]struct{})
	for _, link := range linksForIngredient(r, ingredientID) {
		recipeIDs[link.RecipeID] = struct{}{}
	}

	result := make(RecipeSet, len(recipeIDs))
	for _, recipe := range r.Recipes() {
		if _, ok := recipeIDs[recipe.ID]; ok {
			result.Add(recipe)
		}
	}
	return result
}

func (e *Engine) recordCatalogueSize(ctx context.Context) {
	e.store.View(func(r store.Reader) {
		recipes, ingredients, links := len(r.Recipes()), len(r.Ingredients()), len(r.RecipeIngredients())
		catalogueEntities.WithLabelValues("recipes").Set(float64(recipes))
		catalogueEntities.WithLabelValues("ingredients").Set(float64(ingredients))
		catalogueEntities.WithLabelValues("recipe_ingredients").Set(float64(links))
		applog.Debug(ctx, "catalogue size", "recipes", recipes, "ingredients", ingredients, "links", links)
	})
}

// deref unwraps optional arguments for logging.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
