package models

import "time"

// WeeklySnapshot: immutable copy of one StockItem taken by the weekly archive
// run, keyed by (week, year). Quantity is the value at run time, before the
// live counter is reset. Rows outlive the StockItem they were copied from.
type WeeklySnapshot struct {
	ID        uint      `gorm:"primaryKey"`
	ItemID    uint      `gorm:"index;not null"` // StockItem reference (no FK: history survives deletion)
	Category  string    `gorm:"size:100;not null"`
	Label     string    `gorm:"size:100;not null"`
	Quantity  float64   `gorm:"not null"`
	Date      time.Time `gorm:"not null"`       // item's last movement date, or the run date
	Week      int       `gorm:"index;not null"` // ISO week, 1-53
	Year      int       `gorm:"index;not null"` // ISO year
	CreatedAt time.Time
}
