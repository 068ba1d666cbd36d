// Package store holds the recipe catalogue in process memory: recipes,
// ingredients, the rows linking them, and the primary-key generator shared by
// recipes and ingredients. It performs no query or integrity logic of its own.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"recipebook/models"
)

// Committer receives the post-transaction state before it becomes visible.
// A commit error aborts the transaction.
type Committer interface {
	Commit(ctx context.Context, snapshot Snapshot) error
}

// Option customises a Store at construction time.
type Option func(*Store)

// WithCommitter installs a hook that persists every successful transaction.
func WithCommitter(c Committer) Option {
	return func(s *Store) {
		s.committer = c
	}
}

type state struct {
	recipes     []models.Recipe
	ingredients []models.Ingredient
	links       []models.RecipeIngredient
}

func (s state) clone() state {
	return state{
		recipes:     slices.Clone(s.recipes),
		ingredients: slices.Clone(s.ingredients),
		links:       slices.Clone(s.links),
	}
}

// Store is a mutex-guarded container for the three collections. Mutations run
// through Update, reads through View.
type Store struct {
	mu        sync.RWMutex
	state     state
	lastKey   atomic.Uint64
	committer Committer
}

// New constructs an empty store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePrimaryKey returns a fresh positive key. Keys increase monotonically
// and are never handed out twice, including keys drawn by a transaction that
// was later rolled back.
func (s *Store) GeneratePrimaryKey() uint {
	return uint(s.lastKey.Add(1))
}

// LastKey reports the most recently generated primary key.
func (s *Store) LastKey() uint {
	return uint(s.lastKey.Load())
}

// Update runs fn against a private copy of the state while holding the write
// lock. The copy replaces the live state only when fn and the committer both
// succeed, so callers never observe a partially applied mutation.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{view: view{state: s.state.clone()}, store: s}
	if err := fn(tx); err != nil {
		return err
	}

	if s.committer != nil {
		if err := s.committer.Commit(ctx, snapshotFromState(tx.state, s.LastKey())); err != nil {
			return fmt.Errorf("commit store state: %w", err)
		}
	}

	s.state = tx.state
	return nil
}

// View runs fn against the live state under the read lock.
func (s *Store) View(fn func(r Reader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(view{state: s.state})
}

// Reader exposes read-only access to the collections. Slices returned are
// copies in insertion order.
type Reader interface {
	Recipes() []models.Recipe
	Ingredients() []models.Ingredient
	RecipeIngredients() []models.RecipeIngredient
	FindRecipe(id uint) (models.Recipe, bool)
	FindIngredient(id uint) (models.Ingredient, bool)
}

type view struct {
	state state
}

func (v view) Recipes() []models.Recipe {
	return slices.Clone(v.state.recipes)
}

func (v view) Ingredients() []models.Ingredient {
	return slices.Clone(v.state.ingredients)
}

func (v view) RecipeIngredients() []models.RecipeIngredient {
	return slices.Clone(v.state.links)
}

func (v view) FindRecipe(id uint) (models.Recipe, bool) {
	idx := slices.IndexFunc(v.state.recipes, func(r models.Recipe) bool { return r.ID == id })
	if idx < 0 {
		return models.Recipe{}, false
	}
	return v.state.recipes[idx], true
}

func (v view) FindIngredient(id uint) (models.Ingredient, bool) {
	idx := slices.IndexFunc(v.state.ingredients, func(i models.Ingredient) bool { return i.ID == id })
	if idx < 0 {
		return models.Ingredient{}, false
	}
	return v.state.ingredients[idx], true
}

// Tx is the mutable state handed to Update callbacks.
type Tx struct {
	view
	store *Store
}

// GeneratePrimaryKey draws the next key from the owning store.
func (tx *Tx) GeneratePrimaryKey() uint {
	return tx.store.GeneratePrimaryKey()
}

// AddRecipe appends a recipe. The ID must be set and unused.
func (tx *Tx) AddRecipe(r models.Recipe) error {
	if r.ID == 0 {
		return fmt.Errorf("recipe %q has no primary key", r.Name)
	}
	if _, exists := tx.FindRecipe(r.ID); exists {
		return fmt.Errorf("recipe %d already exists", r.ID)
	}
	tx.state.recipes = append(tx.state.recipes, r)
	return nil
}

// RemoveRecipe deletes the recipe with the given ID and reports whether it existed.
func (tx *Tx) RemoveRecipe(id uint) bool {
	before := len(tx.state.recipes)
	tx.state.recipes = slices.DeleteFunc(tx.state.recipes, func(r models.Recipe) bool { return r.ID == id })
	return len(tx.state.recipes) != before
}

// AddIngredient appends an ingredient. The ID must be set and unused.
func (tx *Tx) AddIngredient(i models.Ingredient) error {
	if i.ID == 0 {
		return fmt.Errorf("ingredient %q has no primary key", i.Name)
	}
	if _, exists := tx.FindIngredient(i.ID); exists {
		return fmt.Errorf("ingredient %d already exists", i.ID)
	}
	tx.state.ingredients = append(tx.state.ingredients, i)
	return nil
}

// RemoveIngredient deletes the ingredient with the given ID and reports whether it existed.
func (tx *Tx) RemoveIngredient(id uint) bool {
	before := len(tx.state.ingredients)
	tx.state.ingredients = slices.DeleteFunc(tx.state.ingredients, func(i models.Ingredient) bool { return i.ID == id })
	return len(tx.state.ingredients) != before
}

// AddRecipeIngredient appends an association row. A recipe/ingredient pair may
// appear only once.
func (tx *Tx) AddRecipeIngredient(link models.RecipeIngredient) error {
	if tx.hasLink(link.RecipeID, link.IngredientID) {
		return fmt.Errorf("recipe %d already links ingredient %d", link.RecipeID, link.IngredientID)
	}
	tx.state.links = append(tx.state.links, link)
	return nil
}

// RemoveRecipeIngredient deletes the row linking the pair and reports whether it existed.
func (tx *Tx) RemoveRecipeIngredient(recipeID, ingredientID uint) bool {
	before := len(tx.state.links)
	tx.state.links = slices.DeleteFunc(tx.state.links, func(l models.RecipeIngredient) bool {
		return l.RecipeID == recipeID && l.IngredientID == ingredientID
	})
	return len(tx.state.links) != before
}

func (tx *Tx) hasLink(recipeID, ingredientID uint) bool {
	return slices.ContainsFunc(tx.state.links, func(l models.RecipeIngredient) bool {
		return l.RecipeID == recipeID && l.IngredientID == ingredientID
	})
}
