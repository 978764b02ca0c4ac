package archive

import (
	"fmt"
	"testing"
	"time"

	"hotelstock-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.StockItem{}, &models.WeeklySnapshot{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, id uint, category, label string, qty float64, moved *time.Time) {
	t.Helper()
	item := models.StockItem{ID: id, Category: category, Label: label, Quantity: qty, Unit: "kg", MovementDate: moved}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item %d: %v", id, err)
	}
}

func TestRunSnapshotsThenResets(t *testing.T) {
	db := setupTestDB(t)
	moved := time.Date(2026, 1, 27, 0, 0, 0, 0, time.Local)
	seedItem(t, db, 7, "boisson/resto", "Eau gazeuse", 5.0, &moved)
	seedItem(t, db, 12, "boisson/snack", "Jus d'orange", 2.5, &moved)
	seedItem(t, db, 31, "epicerie/lounge", "Cacahuètes", 0, nil)

	// 2026-01-29 falls in ISO week 5 of 2026.
	runAt := time.Date(2026, 1, 29, 23, 30, 0, 0, time.Local)
	res, err := Run(db, runAt)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Processed != 3 || res.Week != 5 || res.Year != 2026 {
		t.Fatalf("unexpected result %+v", res)
	}

	var snaps []models.WeeklySnapshot
	if err := db.Order("item_id ASC").Find(&snaps).Error; err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots got %d", len(snaps))
	}

	want := map[uint]float64{7: 5.0, 12: 2.5, 31: 0}
	for _, s := range snaps {
		if s.Quantity != want[s.ItemID] {
			t.Fatalf("item %d: snapshot quantity %v, want %v", s.ItemID, s.Quantity, want[s.ItemID])
		}
		if s.Week != 5 || s.Year != 2026 {
			t.Fatalf("item %d: period %d/%d, want 5/2026", s.ItemID, s.Week, s.Year)
		}
	}

	var items []models.StockItem
	if err := db.Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	for _, item := range items {
		if item.Quantity != 0 {
			t.Fatalf("item %d not reset, quantity %v", item.ID, item.Quantity)
		}
	}
}

func TestRunCopiesMovementDateOrFallsBack(t *testing.T) {
	db := setupTestDB(t)
	moved := time.Date(2026, 1, 27, 0, 0, 0, 0, time.Local)
	seedItem(t, db, 1, "boisson/resto", "Vin rouge", 3, &moved)
	seedItem(t, db, 2, "boisson/resto", "Vin blanc", 4, nil)

	runAt := time.Date(2026, 1, 29, 23, 30, 0, 0, time.Local)
	if _, err := Run(db, runAt); err != nil {
		t.Fatalf("run: %v", err)
	}

	var withDate, without models.WeeklySnapshot
	if err := db.First(&withDate, "item_id = ?", 1).Error; err != nil {
		t.Fatalf("snapshot 1: %v", err)
	}
	if err := db.First(&without, "item_id = ?", 2).Error; err != nil {
		t.Fatalf("snapshot 2: %v", err)
	}
	if !withDate.Date.Equal(moved) {
		t.Fatalf("expected movement date %v got %v", moved, withDate.Date)
	}
	if !without.Date.Equal(runAt) {
		t.Fatalf("expected run date fallback %v got %v", runAt, without.Date)
	}
}

func TestRunEmptyLedger(t *testing.T) {
	db := setupTestDB(t)

	res, err := Run(db, time.Now())
	if err != nil {
		t.Fatalf("run on empty ledger: %v", err)
	}
	if res.Processed != 0 {
		t.Fatalf("expected 0 processed got %d", res.Processed)
	}

	var count int64
	if err := db.Model(&models.WeeklySnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no snapshots got %d", count)
	}
}

func TestRunTwiceInSamePeriodDuplicates(t *testing.T) {
	// No uniqueness on (item, week, year): a re-triggered run silently adds
	// a second batch for the period.
	db := setupTestDB(t)
	seedItem(t, db, 7, "boisson/resto", "Eau gazeuse", 5, nil)

	runAt := time.Date(2026, 1, 29, 23, 30, 0, 0, time.Local)
	if _, err := Run(db, runAt); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := Run(db, runAt.Add(time.Hour)); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	if err := db.Model(&models.WeeklySnapshot{}).
		Where("item_id = ? AND week = ? AND year = ?", 7, 5, 2026).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 snapshots after re-run got %d", count)
	}

	// The second batch recorded the already-reset quantity.
	var second models.WeeklySnapshot
	if err := db.Order("id DESC").First(&second).Error; err != nil {
		t.Fatalf("load second snapshot: %v", err)
	}
	if second.Quantity != 0 {
		t.Fatalf("expected re-run snapshot quantity 0 got %v", second.Quantity)
	}
}

func TestRunRollsBackWhenSnapshotInsertFails(t *testing.T) {
	db := setupTestDB(t)
	seedItem(t, db, 7, "boisson/resto", "Eau gazeuse", 5, nil)

	// Breaking the history table makes the insert step fail; the ledger must
	// keep its quantities.
	if err := db.Migrator().DropTable(&models.WeeklySnapshot{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := Run(db, time.Now()); err == nil {
		t.Fatalf("expected run to fail")
	}

	var item models.StockItem
	if err := db.First(&item, "id = ?", 7).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity was reset despite failed run: %v", item.Quantity)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	db := setupTestDB(t)

	if !runMu.TryLock() {
		t.Fatalf("run lock unexpectedly held")
	}
	defer runMu.Unlock()

	if _, err := Run(db, time.Now()); err != ErrRunInProgress {
		t.Fatalf("expected ErrRunInProgress got %v", err)
	}
}
