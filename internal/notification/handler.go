package notification

import (
	"errors"
	"time"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications?unread=true&date=2026-01-29&start=...&end=...
// date is a single inclusive day; start/end are inclusive bounds, each
// optional independently.
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Notification{})

		if c.Query("unread") == "true" {
			dbq = dbq.Where("read = ?", false)
		}

		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("movement_date = ?", d)
		} else {
			if startStr := c.Query("start"); startStr != "" {
				d, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "start must be 'YYYY-MM-DD'")
				}
				dbq = dbq.Where("movement_date >= ?", d)
			}
			if endStr := c.Query("end"); endStr != "" {
				d, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "end must be 'YYYY-MM-DD'")
				}
				dbq = dbq.Where("movement_date <= ?", d)
			}
		}

		var notifs []models.Notification
		if err := dbq.
			Order("movement_date DESC, movement_time DESC").
			Find(&notifs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(notifs))
		for _, n := range notifs {
			resp = append(resp, toResponse(n))
		}
		return c.JSON(resp)
	}
}

// GET /api/notifications/unread-count
func UnreadCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var count int64
		if err := database.DB.Model(&models.Notification{}).
			Where("read = ?", false).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count notifications")
		}
		return c.JSON(fiber.Map{"unread": count})
	}
}

// PUT /api/notifications/:id/read
// Idempotent: marking an already-read notification succeeds without change.
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id")
		}

		var n models.Notification
		if err := database.DB.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found")
		}

		if !n.Read {
			if err := database.DB.Model(&n).Update("read", true).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update notification")
			}
			n.Read = true
		}

		return c.JSON(toResponse(n))
	}
}

// POST /api/admin/notifications/backup
// Irreversible: archives every notification and clears the live table.
func BackupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		purged, err := BackupAndPurge(database.DB)
		if err != nil {
			if errors.Is(err, ErrNothingToBackup) {
				return fiber.NewError(fiber.StatusBadRequest, "Nothing to back up")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Backup failed, notifications are unchanged")
		}
		return c.JSON(fiber.Map{"archived": purged})
	}
}

type BackupResponse struct {
	ID             uint     `json:"id"`
	NotificationID uint     `json:"notification_id"`
	ItemID         uint     `json:"item_id"`
	Category       string   `json:"category"`
	Label          string   `json:"label"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	Price          *float64 `json:"price"`
	MovementDate   string   `json:"movement_date"`
	MovementTime   string   `json:"movement_time"`
	Read           bool     `json:"read"`
	BackedUpAt     string   `json:"backed_up_at"`
}

// GET /api/admin/notification-backups
func ListBackupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var backups []models.NotificationBackup
		if err := database.DB.
			Order("backed_up_at DESC, id DESC").
			Find(&backups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list backups")
		}

		resp := make([]BackupResponse, 0, len(backups))
		for _, b := range backups {
			resp = append(resp, BackupResponse{
				ID:             b.ID,
				NotificationID: b.NotificationID,
				ItemID:         b.ItemID,
				Category:       b.Category,
				Label:          b.Label,
				Quantity:       b.Quantity,
				Unit:           b.Unit,
				Price:          b.Price,
				MovementDate:   b.MovementDate.Format("2006-01-02"),
				MovementTime:   b.MovementTime,
				Read:           b.Read,
				BackedUpAt:     b.BackedUpAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}
