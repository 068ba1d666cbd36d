package recipes

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of these,
// so callers classify failures with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrMissingSelector     = fmt.Errorf("%w: either id or name must be provided", ErrInvalidArgument)
	ErrRecipeNotFound      = fmt.Errorf("recipe %w", ErrNotFound)
	ErrIngredientNotFound  = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrDuplicateRecipeName = fmt.Errorf("%w: recipe with the same name already exists", ErrConflict)
	ErrIngredientInUse     = fmt.Errorf("%w: multiple recipes use this ingredient", ErrConflict)
)

// Kind returns a short label for the error kind, used for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
