package models

// Recipe is a named dish. IDs are assigned by the entity store and are shared
// with ingredients, so a recipe and an ingredient never carry the same ID.
type Recipe struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Servings    int    `gorm:"not null;default:0" json:"servings"`
}
