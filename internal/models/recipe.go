package models

import "github.com/jinzhu/gorm"

// Item types an ingredient row can carry.
const (
	ItemTypeIngredient = "ingredient"
	ItemTypeSubRecipe  = "subrecipe"
)

// RecipeIngredient is one ordered row of a recipe: either a raw ingredient
// or a reference to another recipe by name. Recipes are created and edited
// by the recipe-management screens; the checker only reads them.
type RecipeIngredient struct {
	gorm.Model
	RecipeName     string `gorm:"index"`
	IngredientName string
	ItemType       string `gorm:"column:item_type"`
	Quantity       float64
	Unit           string
	Position       int
}

// TableName sets the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// IngredientMapping is the optional alias table mapping a recipe ingredient
// name (lowercased) to the inventory item it should resolve to. Deployments
// without it fall back to fuzzy matching.
type IngredientMapping struct {
	gorm.Model
	RecipeIngredientName string `gorm:"column:recipe_ingredient_name;unique_index"`
	InventoryItemName    string `gorm:"column:inventory_item_name"`
}

// TableName sets the table name for IngredientMapping
func (IngredientMapping) TableName() string {
	return "ingredient_mappings"
}
