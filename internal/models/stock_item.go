package models

import "time"

// StockItem: current quantity on hand for one trackable good.
// The ID is the hotel's own article number, assigned by the caller at creation.
type StockItem struct {
	ID           uint       `gorm:"primaryKey;autoIncrement:false"`
	Category     string     `gorm:"size:100;index;not null"` // two-part path, e.g. "boisson/resto"
	Label        string     `gorm:"size:100;not null"`
	Quantity     float64    `gorm:"not null;default:0"` // never negative
	Unit         string     `gorm:"size:20"`            // kg, bouteille, carton...
	Price        *float64   // unit price, optional
	MovementDate *time.Time // date of the last stock movement
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
