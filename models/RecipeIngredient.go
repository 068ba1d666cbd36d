package models

// RecipeIngredient links a recipe to one of its ingredients together with the
// quantity the recipe calls for.
type RecipeIngredient struct {
	RecipeID        uint            `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IngredientID    uint            `gorm:"primaryKey;autoIncrement:false" json:"ingredient_id"`
	Amount          float64         `gorm:"not null" json:"amount"`
	MeasurementUnit MeasurementUnit `gorm:"type:varchar(32);not null" json:"measurement_unit"`
}
