package handlers

import (
	"net/http"
	"strings"

	applog "recipebook/internal/log"
	"recipebook/internal/views/pages"
	"recipebook/models"
)

// Home renders the recipe catalogue, optionally filtered by ?q=.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var list []models.Recipe
	if engine != nil {
		if query == "" {
			list = engine.ListRecipes(r.Context())
		} else {
			list = engine.GetRecipes(r.Context(), 0, query).Sorted()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.RecipeIndex(query, list).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render recipe index", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
