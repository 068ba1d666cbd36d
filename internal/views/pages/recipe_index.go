package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"recipebook/internal/views/layout"
	"recipebook/models"
)

// RecipeIndex renders the catalogue page. query echoes the active name
// filter back into the search box.
func RecipeIndex(query string, recipes []models.Recipe) templ.Component {
	return layout.Layout("Recipe book", recipeList(query, recipes))
}

func recipeList(query string, recipes []models.Recipe) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main><h1>Recipe book</h1>`)
		b.WriteString(`<form method="get" action="/"><input type="search" name="q" placeholder="Search recipes" value="`)
		b.WriteString(templ.EscapeString(query))
		b.WriteString(`"><button type="submit">Search</button></form>`)

		if len(recipes) == 0 {
			b.WriteString(`<p class="empty">`)
			b.WriteString(templ.EscapeString(EmptyMessage(query)))
			b.WriteString(`</p></main>`)
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString(`<ul class="recipes">`)
		for _, recipe := range recipes {
			fmt.Fprintf(&b, `<li data-recipe-id="%d"><a href="/api/recipes/%d">`, recipe.ID, recipe.ID)
			b.WriteString(templ.EscapeString(recipe.Name))
			b.WriteString(`</a> <span class="servings">`)
			b.WriteString(templ.EscapeString(ServingsLabel(recipe.Servings)))
			b.WriteString(`</span>`)
			if desc := strings.TrimSpace(recipe.Description); desc != "" {
				b.WriteString(`<p>`)
				b.WriteString(templ.EscapeString(desc))
				b.WriteString(`</p>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></main>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ServingsLabel formats a serving count for display.
func ServingsLabel(servings int) string {
	switch {
	case servings <= 0:
		return "servings not set"
	case servings == 1:
		return "serves 1"
	default:
		return fmt.Sprintf("serves %d", servings)
	}
}

func EmptyMessage(query string) string {
	if strings.TrimSpace(query) == "" {
		return "No recipes yet."
	}
	return fmt.Sprintf("No recipes match %q.", strings.TrimSpace(query))
}
