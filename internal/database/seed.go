package database

import (
	"time"

	"kitchenops/internal/models"

	"github.com/jinzhu/gorm"
)

// Seed ensures a minimal working data set exists for development: one
// schedule, a recipe with a sub-recipe, an inventory snapshot and one alias
// mapping. Production data arrives through the scheduling screens and the
// stock sync instead.
func Seed(db *gorm.DB) {
	var scheduleCount int
	db.Model(&models.ProductionSchedule{}).Count(&scheduleCount)
	if scheduleCount > 0 {
		return
	}

	monday := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	tuesday := monday.AddDate(0, 0, 1)

	db.Create(&models.ProductionSchedule{
		ScheduleID: "week-1",
		Name:       "Week 1 production",
		Status:     "ACTIVE",
	})

	day1 := models.ProductionDay{ScheduleID: "week-1", Date: monday, Position: 0}
	db.Create(&day1)
	day2 := models.ProductionDay{ScheduleID: "week-1", Date: tuesday, Position: 1}
	db.Create(&day2)

	db.Create(&models.ProductionItem{DayID: day1.ID, RecipeName: "Brownies 1 KG", Quantity: 2, Position: 0})
	db.Create(&models.ProductionItem{DayID: day2.ID, RecipeName: "Brownies 1 KG", Quantity: 1, Position: 0})

	recipeRows := []models.RecipeIngredient{
		{RecipeName: "Brownies 1 KG", IngredientName: "Chocolate Base", ItemType: models.ItemTypeSubRecipe, Quantity: 1, Unit: "UNIT", Position: 0},
		{RecipeName: "Brownies 1 KG", IngredientName: "Butter", ItemType: models.ItemTypeIngredient, Quantity: 200, Unit: "GM", Position: 1},
		{RecipeName: "Brownies 1 KG", IngredientName: "Eggs", ItemType: models.ItemTypeIngredient, Quantity: 4, Unit: "UNIT", Position: 2},
		{RecipeName: "Chocolate Base", IngredientName: "Dark Chocolate 70%", ItemType: models.ItemTypeIngredient, Quantity: 300, Unit: "GM", Position: 0},
		{RecipeName: "Chocolate Base", IngredientName: "Sugar", ItemType: models.ItemTypeIngredient, Quantity: 0.25, Unit: "KG", Position: 1},
	}
	for i := range recipeRows {
		db.Create(&recipeRows[i])
	}

	today := time.Now().Truncate(24 * time.Hour)
	stock := []models.InventoryRecord{
		{Item: "Butter", Quantity: 150, Unit: "GM", InventoryDate: today, Location: "Central Kitchen"},
		{Item: "Eggs", Quantity: 30, Unit: "UNIT", InventoryDate: today, Location: "Central Kitchen"},
		{Item: "Chocolate", Quantity: 2, Unit: "KG", InventoryDate: today, Location: "Central Kitchen"},
		{Item: "White Sugar", Quantity: 5, Unit: "KG", InventoryDate: today, Location: "Central Kitchen"},
	}
	for i := range stock {
		db.Create(&stock[i])
	}

	db.Create(&models.IngredientMapping{
		RecipeIngredientName: "sugar",
		InventoryItemName:    "White Sugar",
	})
}
