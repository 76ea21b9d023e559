package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// ProductionSchedule is the header row of a production schedule. The
// schedule content itself lives in ProductionDay/ProductionItem rows keyed
// by ScheduleID.
type ProductionSchedule struct {
	gorm.Model
	ScheduleID string `gorm:"column:schedule_id;unique_index"`
	Name       string
	Status     string
}

// TableName sets the table name for ProductionSchedule
func (ProductionSchedule) TableName() string {
	return "production_schedules"
}

// ProductionDay is one day of a schedule, in schedule order.
type ProductionDay struct {
	gorm.Model
	ScheduleID string `gorm:"column:schedule_id;index"`
	Date       time.Time
	Position   int
}

// TableName sets the table name for ProductionDay
func (ProductionDay) TableName() string {
	return "production_days"
}

// ProductionItem is one row of a production day: a recipe and how much of
// it to produce. AdjustedQuantity, when set, overrides Quantity.
type ProductionItem struct {
	gorm.Model
	DayID            uint `gorm:"index"`
	RecipeName       string
	Quantity         float64
	AdjustedQuantity *float64
	Position         int
}

// TableName sets the table name for ProductionItem
func (ProductionItem) TableName() string {
	return "production_items"
}
