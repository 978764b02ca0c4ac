package archive

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"hotelstock-backend/internal/models"

	"gorm.io/gorm"
)

// ErrRunInProgress is returned when a run is requested while a previous one
// is still executing. The caller should simply try again later.
var ErrRunInProgress = errors.New("archive run already in progress")

var runMu sync.Mutex

type RunResult struct {
	Processed int
	Week      int
	Year      int
}

// Run snapshots every StockItem into WeeklySnapshot rows keyed by the ISO
// (week, year) of now, then resets all live quantities to zero. Both steps
// run inside one transaction: a failure anywhere leaves the ledger and the
// history exactly as they were. Snapshots are inserted before the reset so
// the ordering guarantee also holds for anyone reading inside the
// transaction.
//
// Re-running within the same period inserts a second batch of rows for that
// period; there is deliberately no uniqueness constraint on (item, week,
// year). The scheduler never does this, only a manual recovery trigger can.
func Run(db *gorm.DB, now time.Time) (RunResult, error) {
	if !runMu.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer runMu.Unlock()

	year, week := now.ISOWeek()
	res := RunResult{Week: week, Year: year}

	err := db.Transaction(func(tx *gorm.DB) error {
		var items []models.StockItem
		if err := tx.Find(&items).Error; err != nil {
			return fmt.Errorf("load stock items: %w", err)
		}

		snapshots := make([]models.WeeklySnapshot, 0, len(items))
		for _, item := range items {
			date := now
			if item.MovementDate != nil {
				date = *item.MovementDate
			}
			snapshots = append(snapshots, models.WeeklySnapshot{
				ItemID:   item.ID,
				Category: item.Category,
				Label:    item.Label,
				Quantity: item.Quantity,
				Date:     date,
				Week:     week,
				Year:     year,
			})
		}

		if len(snapshots) > 0 {
			if err := tx.Create(&snapshots).Error; err != nil {
				return fmt.Errorf("insert snapshots (%d staged): %w", len(snapshots), err)
			}
		}

		// Reset runs last, as a single bulk statement. An empty ledger still
		// gets the reset (a no-op).
		if err := tx.Exec("UPDATE stock_items SET quantity = 0").Error; err != nil {
			return fmt.Errorf("reset quantities: %w", err)
		}

		res.Processed = len(items)
		return nil
	})
	if err != nil {
		return RunResult{}, err
	}
	return res, nil
}
