package notification

import (
	"errors"
	"fmt"
	"time"

	"hotelstock-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNothingToBackup is returned when a purge is requested with no
// notifications present. The operation fails fast without touching storage.
var ErrNothingToBackup = errors.New("nothing to back up")

// BackupAndPurge copies every Notification into NotificationBackup (stamped
// with the backup time) and deletes the originals, as a single transaction.
// Either all N rows are backed up and deleted, or nothing changes.
func BackupAndPurge(db *gorm.DB) (int, error) {
	var purged int

	err := db.Transaction(func(tx *gorm.DB) error {
		var notifs []models.Notification
		if err := tx.Find(&notifs).Error; err != nil {
			return fmt.Errorf("load notifications: %w", err)
		}
		if len(notifs) == 0 {
			return ErrNothingToBackup
		}

		now := time.Now()
		backups := make([]models.NotificationBackup, 0, len(notifs))
		for _, n := range notifs {
			backups = append(backups, models.NotificationBackup{
				NotificationID: n.ID,
				ItemID:         n.ItemID,
				Category:       n.Category,
				Label:          n.Label,
				Quantity:       n.Quantity,
				Unit:           n.Unit,
				Price:          n.Price,
				MovementDate:   n.MovementDate,
				MovementTime:   n.MovementTime,
				Read:           n.Read,
				BackedUpAt:     now,
			})
		}

		if err := tx.Create(&backups).Error; err != nil {
			return fmt.Errorf("insert %d backup entries: %w", len(backups), err)
		}
		if err := tx.Exec("DELETE FROM notifications").Error; err != nil {
			return fmt.Errorf("purge notifications: %w", err)
		}

		purged = len(notifs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}
