package models

// Ingredient is anything a recipe can call for. Names are not unique at the
// storage level.
type Ingredient struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
}
