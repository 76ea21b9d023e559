package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// InventoryRecord is one on-hand line produced by the upstream stock sync.
// A snapshot is the set of rows sharing the most recent InventoryDate for a
// location; the checker only ever reads the latest snapshot.
type InventoryRecord struct {
	gorm.Model
	Item          string `gorm:"index"`
	Quantity      float64
	Unit          string
	InventoryDate time.Time `gorm:"column:inventory_date;index"`
	Location      string    `gorm:"index"`
}

// TableName sets the table name for InventoryRecord
func (InventoryRecord) TableName() string {
	return "inventory_records"
}
