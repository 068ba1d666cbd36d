package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applog "recipebook/internal/log"
	"recipebook/internal/store"
	"recipebook/models"
)

const storeSequence = "recipebook"

// saveBatchSize keeps each INSERT well under the bind-variable limits of
// sqlite (32766) and postgres (65535).
const saveBatchSize = 500

// keySequence records the last primary key handed out by the store so that
// keys are never reused across restarts, even for rows since deleted.
type keySequence struct {
	Name    string `gorm:"primaryKey;size:64"`
	LastKey uint   `gorm:"not null"`
}

func (keySequence) TableName() string {
	return "key_sequences"
}

// LoadSnapshot reads the persisted store contents. An empty database yields
// an empty snapshot.
func LoadSnapshot(ctx context.Context, db *gorm.DB) (store.Snapshot, error) {
	if db == nil {
		return store.Snapshot{}, fmt.Errorf("database handle is nil")
	}

	var snapshot store.Snapshot
	conn := db.WithContext(ctx)

	if err := conn.Order("id").Find(&snapshot.Recipes).Error; err != nil {
		return store.Snapshot{}, fmt.Errorf("load recipes: %w", err)
	}
	if err := conn.Order("id").Find(&snapshot.Ingredients).Error; err != nil {
		return store.Snapshot{}, fmt.Errorf("load ingredients: %w", err)
	}
	if err := conn.Order("recipe_id").Order("ingredient_id").Find(&snapshot.RecipeIngredients).Error; err != nil {
		return store.Snapshot{}, fmt.Errorf("load recipe ingredients: %w", err)
	}

	var seq keySequence
	err := conn.Where("name = ?", storeSequence).First(&seq).Error
	switch {
	case err == nil:
		snapshot.LastKey = seq.LastKey
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return store.Snapshot{}, fmt.Errorf("load key sequence: %w", err)
	}

	applog.Debug(ctx, "store snapshot loaded",
		"recipes", len(snapshot.Recipes),
		"ingredients", len(snapshot.Ingredients),
		"recipeIngredients", len(snapshot.RecipeIngredients),
		"lastKey", snapshot.LastKey,
	)
	return snapshot, nil
}

// SaveSnapshot replaces the persisted store contents with snapshot in a
// single database transaction.
func SaveSnapshot(ctx context.Context, db *gorm.DB, snapshot store.Snapshot) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []any{&models.RecipeIngredient{}, &models.Ingredient{}, &models.Recipe{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}

		if len(snapshot.Recipes) > 0 {
			if err := tx.CreateInBatches(&snapshot.Recipes, saveBatchSize).Error; err != nil {
				return fmt.Errorf("save recipes: %w", err)
			}
		}
		if len(snapshot.Ingredients) > 0 {
			if err := tx.CreateInBatches(&snapshot.Ingredients, saveBatchSize).Error; err != nil {
				return fmt.Errorf("save ingredients: %w", err)
			}
		}
		if len(snapshot.RecipeIngredients) > 0 {
			if err := tx.CreateInBatches(&snapshot.RecipeIngredients, saveBatchSize).Error; err != nil {
				return fmt.Errorf("save recipe ingredients: %w", err)
			}
		}

		seq := keySequence{Name: storeSequence, LastKey: snapshot.LastKey}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_key"}),
		}).Create(&seq).Error; err != nil {
			return fmt.Errorf("save key sequence: %w", err)
		}
		return nil
	})
}

// SnapshotCommitter writes every committed store transaction through to the
// database. A failed write aborts the store transaction.
type SnapshotCommitter struct {
	DB *gorm.DB
}

// Commit implements store.Committer.
func (c SnapshotCommitter) Commit(ctx context.Context, snapshot store.Snapshot) error {
	if err := SaveSnapshot(ctx, c.DB, snapshot); err != nil {
		applog.Error(ctx, "store snapshot not persisted", "error", err)
		return err
	}
	applog.Debug(ctx, "store snapshot persisted", "lastKey", snapshot.LastKey)
	return nil
}
