package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps content in the shared HTML document shell.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</title></head><body class="recipebook">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
