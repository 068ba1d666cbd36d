package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipebook/internal/db"
	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

// DemoEmail and DemoPassword are the credentials of the seeded user.
const (
	DemoEmail    = "cook@recipebook.local"
	DemoPassword = "mise-en-place"
)

// New returns an in-memory sqlite database seeded with a demo user and a
// small recipe catalogue. Each call gets its own database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:recipebook-mock-%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(conn); err != nil {
		return nil, err
	}

	if err := seed(ctx, conn); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return conn, nil
}

// Catalogue is the seeded recipe data. Eggs is shared by two recipes, so it
// cannot be deleted while both exist.
func Catalogue() store.Snapshot {
	return store.Snapshot{
		Recipes: []models.Recipe{
			{ID: 1, Name: "Scrambled Eggs", Description: "Soft curds cooked low and slow in butter.", Servings: 2},
			{ID: 2, Name: "Buttermilk Pancakes", Description: "Fluffy stack for a weekend breakfast.", Servings: 4},
			{ID: 3, Name: "Tomato Bruschetta", Description: "Grilled bread rubbed with garlic and topped with tomato.", Servings: 6},
		},
		Ingredients: []models.Ingredient{
			{ID: 4, Name: "Eggs"},
			{ID: 5, Name: "Butter"},
			{ID: 6, Name: "Flour"},
			{ID: 7, Name: "Buttermilk"},
			{ID: 8, Name: "Tomatoes"},
			{ID: 9, Name: "Sourdough"},
		},
		RecipeIngredients: []models.RecipeIngredient{
			{RecipeID: 1, IngredientID: 4, Amount: 4, MeasurementUnit: models.Pieces},
			{RecipeID: 1, IngredientID: 5, Amount: 1, MeasurementUnit: models.Tablespoons},
			{RecipeID: 2, IngredientID: 6, Amount: 250, MeasurementUnit: models.Grams},
			{RecipeID: 2, IngredientID: 7, Amount: 300, MeasurementUnit: models.Milliliters},
			{RecipeID: 2, IngredientID: 4, Amount: 2, MeasurementUnit: models.Pieces},
			{RecipeID: 3, IngredientID: 8, Amount: 500, MeasurementUnit: models.Grams},
			{RecipeID: 3, IngredientID: 9, Amount: 6, MeasurementUnit: models.Pieces},
		},
		LastKey: 9,
	}
}

func seed(ctx context.Context, conn *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Demo Cook",
		Email:        DemoEmail,
		PasswordHash: string(password),
	}
	if err := conn.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	return db.SaveSnapshot(ctx, conn, Catalogue())
}
