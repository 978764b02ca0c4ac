package notification

import (
	"fmt"
	"testing"
	"time"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}, &models.NotificationBackup{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
	return db
}

func TestEmitRecordsDeltaWithServerClock(t *testing.T) {
	db := setupTestDB(t)

	price := 1.20
	moved := time.Date(2020, 6, 1, 0, 0, 0, 0, time.Local) // stale caller date, must be ignored
	item := models.StockItem{
		ID:           7,
		Category:     "boisson/resto",
		Label:        "Eau gazeuse",
		Quantity:     5.0, // new total after the mutation
		Unit:         "bouteille",
		Price:        &price,
		MovementDate: &moved,
	}

	Emit(item, 2.0)

	var n models.Notification
	if err := db.First(&n).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if n.ItemID != 7 || n.Category != "boisson/resto" || n.Label != "Eau gazeuse" {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.Quantity != 2.0 {
		t.Fatalf("expected delta 2.0 got %v", n.Quantity)
	}
	if n.Read {
		t.Fatalf("new notification must be unread")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !n.MovementDate.Equal(today) {
		t.Fatalf("movement date %v is not today's server date %v", n.MovementDate, today)
	}
	if len(n.MovementTime) != 8 {
		t.Fatalf("movement time %q is not HH:MM:SS", n.MovementTime)
	}
}

func TestEmitFailureIsSwallowed(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Migrator().DropTable(&models.Notification{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	// The stock mutation already succeeded; a broken notification store must
	// not take it down.
	Emit(models.StockItem{ID: 7, Category: "boisson/resto", Label: "Eau gazeuse"}, 2.0)
}
