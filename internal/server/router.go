package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipebook/internal/handlers"
	applog "recipebook/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	route := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, instrument(pattern, handler))
		applog.Debug(context.Background(), "route registered", "pattern", pattern)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(h)
	}

	route("/healthz", http.HandlerFunc(handlers.Health))
	mux.Handle("GET /metrics", promhttp.Handler())
	applog.Debug(context.Background(), "route registered", "pattern", "GET /metrics")

	route("/api/session", http.HandlerFunc(handlers.Session))
	route("POST /api/users", http.HandlerFunc(handlers.Signup))

	route("GET /api/recipes", http.HandlerFunc(handlers.ListRecipes))
	route("POST /api/recipes", protected(handlers.CreateRecipe))
	route("DELETE /api/recipes", protected(handlers.DeleteRecipe))
	route("GET /api/recipes/by-ingredient", http.HandlerFunc(handlers.RecipesByIngredient))
	route("GET /api/recipes/by-dietary-restriction", http.HandlerFunc(handlers.RecipesByDietaryRestriction))
	route("GET /api/recipes/{id}", http.HandlerFunc(handlers.ShowRecipe))

	route("GET /api/ingredients", http.HandlerFunc(handlers.ListIngredients))
	route("DELETE /api/ingredients", protected(handlers.DeleteIngredient))

	route("/", http.HandlerFunc(handlers.Home))
	return mux
}
