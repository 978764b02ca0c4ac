package models

import "time"

// LossEntry: quantity removed outside normal consumption (breakage, waste).
type LossEntry struct {
	ID        uint      `gorm:"primaryKey"`
	ItemID    uint      `gorm:"index;not null"`
	Item      StockItem `gorm:"constraint:OnDelete:CASCADE"`
	Quantity  float64   `gorm:"not null"`
	Comment   string    `gorm:"size:500;not null"` // required: what happened, who noticed
	CreatedAt time.Time
}
