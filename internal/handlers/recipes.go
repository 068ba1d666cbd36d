package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/recipes"
	"recipebook/models"
)

type ingredientLineRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type createRecipeRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Servings    int                     `json:"servings"`
	Ingredients []ingredientLineRequest `json:"ingredients"`
}

// bind validates the payload and converts it into engine inputs.
func (req createRecipeRequest) bind() (models.Recipe, []recipes.IngredientLine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Recipe{}, nil, fmt.Errorf("recipe name is required")
	}
	if req.Servings < 0 {
		return models.Recipe{}, nil, fmt.Errorf("servings must not be negative")
	}

	lines := make([]recipes.IngredientLine, 0, len(req.Ingredients))
	for i, item := range req.Ingredients {
		ingredientName := strings.TrimSpace(item.Name)
		if ingredientName == "" {
			return models.Recipe{}, nil, fmt.Errorf("ingredient %d: name is required", i+1)
		}
		if item.Amount < 0 {
			return models.Recipe{}, nil, fmt.Errorf("ingredient %d: amount must not be negative", i+1)
		}
		unit, ok := models.ParseMeasurementUnit(item.Unit)
		if !ok {
			return models.Recipe{}, nil, fmt.Errorf("ingredient %d: unknown measurement unit %q", i+1, item.Unit)
		}
		lines = append(lines, recipes.IngredientLine{
			Ingredient:      models.Ingredient{Name: ingredientName},
			Amount:          item.Amount,
			MeasurementUnit: unit,
		})
	}

	recipe := models.Recipe{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Servings:    req.Servings,
	}
	return recipe, lines, nil
}

// ListRecipes answers GET /api/recipes by id or by name fragment. Without
// either selector it lists the whole catalogue.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	query := r.URL.Query()
	if !query.Has("id") && !query.Has("name") {
		writeJSON(w, http.StatusOK, engine.ListRecipes(r.Context()))
		return
	}

	// id=0 means "not supplied" and falls through to the name search.
	var id uint
	if raw := strings.TrimSpace(query.Get("id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "id must be a non-negative integer")
			return
		}
		id = uint(parsed)
	}

	set := engine.GetRecipes(r.Context(), id, query.Get("name"))
	writeJSON(w, http.StatusOK, set.Sorted())
}

// ShowRecipe returns one recipe with its ingredient lines.
func ShowRecipe(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", r.PathValue("id"))
		writeJSONError(w, http.StatusNotFound, "recipe not found")
		return
	}

	detail, err := engine.RecipeDetail(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// RecipesByIngredient answers GET /api/recipes/by-ingredient.
func RecipesByIngredient(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	id, err := optionalID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	set := engine.GetRecipesByIngredient(r.Context(), id, optionalName(r))
	writeJSON(w, http.StatusOK, set.Sorted())
}

// RecipesByDietaryRestriction answers GET /api/recipes/by-dietary-restriction.
func RecipesByDietaryRestriction(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	id, err := optionalID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	set := engine.GetRecipesByDietaryRestriction(r.Context(), id, optionalName(r))
	writeJSON(w, http.StatusOK, set.Sorted())
}

// CreateRecipe stores a recipe together with its ingredient lines.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	var req createRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		applog.Debug(r.Context(), "failed to decode recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe, lines, err := req.bind()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := engine.CreateRecipeWithIngredients(r.Context(), recipe, lines)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	userID, _ := currentUserID(r)
	applog.Info(r.Context(), "recipe created via api", "recipeID", detail.Recipe.ID, "userID", userID)
	w.Header().Set("Location", fmt.Sprintf("/api/recipes/%d", detail.Recipe.ID))
	writeJSON(w, http.StatusCreated, detail)
}

// DeleteRecipe removes a recipe selected by id or exact name.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if !engineAvailable(w, r) {
		return
	}

	id, err := optionalID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed, err := engine.DeleteRecipe(r.Context(), id, r.URL.Query().Get("name"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}
