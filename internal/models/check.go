package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// InventoryCheck is one persisted run of the shortage checker. Rows are
// immutable: re-running a check inserts a new row with a new CheckID, and
// "latest" is resolved by creation time.
type InventoryCheck struct {
	gorm.Model
	CheckID          string      `gorm:"column:check_id;unique_index"`
	ScheduleID       string      `gorm:"column:schedule_id;index"`
	ProductionDates  StringSlice `gorm:"type:text"`
	Status           string      `gorm:"default:'COMPLETED'"`
	TotalIngredients int         `gorm:"column:total_ingredients_required"`
	MissingCount     int         `gorm:"column:missing_ingredients_count"`
	PartialCount     int         `gorm:"column:partial_ingredients_count"`
	SufficientCount  int         `gorm:"column:sufficient_ingredients_count"`
	OverallStatus    string      `gorm:"column:overall_status"`
	InventoryDate    time.Time   `gorm:"column:inventory_date"`
	CheckedBy        string      `gorm:"column:checked_by"`
	CheckType        string      `gorm:"column:check_type"`
}

// TableName sets the table name for InventoryCheck
func (InventoryCheck) TableName() string {
	return "inventory_checks"
}

// IngredientShortage is one surfaced deficit belonging to a check.
type IngredientShortage struct {
	gorm.Model
	ShortageID        string      `gorm:"column:shortage_id;unique_index"`
	CheckID           string      `gorm:"column:check_id;index"`
	ScheduleID        string      `gorm:"column:schedule_id;index"`
	ProductionDate    time.Time   `gorm:"column:production_date"`
	IngredientName    string      `gorm:"column:ingredient_name"`
	InventoryItemName *string     `gorm:"column:inventory_item_name"`
	RequiredQuantity  float64     `gorm:"column:required_quantity"`
	AvailableQuantity float64     `gorm:"column:available_quantity"`
	ShortfallAmount   float64     `gorm:"column:shortfall_amount"`
	Unit              string
	ShortageStatus    string      `gorm:"column:status"`
	Priority          string
	AffectedRecipes   StringSlice `gorm:"type:text"`
	AffectedItems     StringSlice `gorm:"column:affected_production_items;type:text"`
	ResolutionStatus  string      `gorm:"column:resolution_status;default:'PENDING'"`
}

// TableName sets the table name for IngredientShortage
func (IngredientShortage) TableName() string {
	return "ingredient_shortages"
}
