package models

import "time"

// Notification: durable record of a stock increase. Quantity is the amount
// that was added (the delta), never the item's new total. Movement date/time
// are the server clock at emission, regardless of any caller-supplied date on
// the stock movement itself.
type Notification struct {
	ID           uint    `gorm:"primaryKey"`
	ItemID       uint    `gorm:"index;not null"`
	Category     string  `gorm:"size:100;not null"`
	Label        string  `gorm:"size:100;not null"`
	Quantity     float64 `gorm:"not null"` // delta added
	Unit         string  `gorm:"size:20"`
	Price        *float64
	MovementDate time.Time `gorm:"index;not null"`  // calendar date (midnight)
	MovementTime string    `gorm:"size:8;not null"` // "15:04:05"
	Read         bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

// NotificationBackup: copy of a Notification taken by the bulk
// backup-then-purge operation. Created all-or-nothing, never mutated.
type NotificationBackup struct {
	ID             uint    `gorm:"primaryKey"`
	NotificationID uint    `gorm:"index;not null"`
	ItemID         uint    `gorm:"index;not null"`
	Category       string  `gorm:"size:100;not null"`
	Label          string  `gorm:"size:100;not null"`
	Quantity       float64 `gorm:"not null"`
	Unit           string  `gorm:"size:20"`
	Price          *float64
	MovementDate   time.Time `gorm:"not null"`
	MovementTime   string    `gorm:"size:8;not null"`
	Read           bool      `gorm:"not null"`
	BackedUpAt     time.Time `gorm:"not null"`
}
