package store

import (
	"context"
	"slices"

	"recipebook/models"
)

// Snapshot is a point-in-time copy of the store, used for persistence and
// seeding.
type Snapshot struct {
	Recipes           []models.Recipe           `json:"recipes"`
	Ingredients       []models.Ingredient       `json:"ingredients"`
	RecipeIngredients []models.RecipeIngredient `json:"recipe_ingredients"`
	LastKey           uint                      `json:"last_key"`
}

func snapshotFromState(s state, lastKey uint) Snapshot {
	return Snapshot{
		Recipes:           slices.Clone(s.recipes),
		Ingredients:       slices.Clone(s.ingredients),
		RecipeIngredients: slices.Clone(s.links),
		LastKey:           lastKey,
	}
}

// Export clones the current state.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state, s.LastKey())
}

// Import replaces the state with the snapshot contents. The key generator is
// advanced past both the snapshot's recorded key and every ID it contains; it
// never moves backwards. The committer is not invoked.
func (s *Store) Import(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s}
	maxKey := snapshot.LastKey
	for _, r := range snapshot.Recipes {
		if err := tx.AddRecipe(r); err != nil {
			return err
		}
		maxKey = max(maxKey, r.ID)
	}
	for _, i := range snapshot.Ingredients {
		if err := tx.AddIngredient(i); err != nil {
			return err
		}
		maxKey = max(maxKey, i.ID)
	}
	for _, l := range snapshot.RecipeIngredients {
		if err := tx.AddRecipeIngredient(l); err != nil {
			return err
		}
	}

	s.state = tx.state
	for {
		current := s.lastKey.Load()
		if uint64(maxKey) <= current || s.lastKey.CompareAndSwap(current, uint64(maxKey)) {
			break
		}
	}
	return nil
}

// CommitterFunc adapts a function to the Committer interface.
type CommitterFunc func(ctx context.Context, snapshot Snapshot) error

// Commit calls f.
func (f CommitterFunc) Commit(ctx context.Context, snapshot Snapshot) error {
	return f(ctx, snapshot)
}
