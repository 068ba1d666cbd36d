package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"recipebook/internal/db"
	"recipebook/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	snapshot, err := db.LoadSnapshot(ctx, conn)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	want := Catalogue()
	if len(snapshot.Recipes) != len(want.Recipes) || len(snapshot.Ingredients) != len(want.Ingredients) {
		t.Fatalf("unexpected seeded catalogue: %+v", snapshot)
	}
	if len(snapshot.RecipeIngredients) != len(want.RecipeIngredients) {
		t.Fatalf("expected %d recipe ingredients, got %d", len(want.RecipeIngredients), len(snapshot.RecipeIngredients))
	}
	if snapshot.LastKey != want.LastKey {
		t.Fatalf("LastKey = %d, want %d", snapshot.LastKey, want.LastKey)
	}

	var user models.User
	if err := conn.WithContext(ctx).First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if user.Email != DemoEmail {
		t.Fatalf("unexpected user email %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}
}

func TestNewReturnsIsolatedDatabases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := New(ctx)
	if err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	if _, err := New(ctx); err != nil {
		t.Fatalf("second New() error = %v", err)
	}

	var count int64
	if err := first.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one user per database, got %d", count)
	}
}

func TestCatalogueSharesEggs(t *testing.T) {
	t.Parallel()

	users := 0
	for _, link := range Catalogue().RecipeIngredients {
		if link.IngredientID == 4 {
			users++
		}
	}
	if users != 2 {
		t.Fatalf("expected Eggs to be used by two recipes, got %d", users)
	}
}
