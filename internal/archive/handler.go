package archive

import (
	"errors"
	"time"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SnapshotResponse struct {
	ID       uint    `json:"id"`
	ItemID   uint    `json:"item_id"`
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Date     string  `json:"date"`
	Week     int     `json:"week"`
	Year     int     `json:"year"`
}

// POST /api/admin/archive/run
// Manual recovery trigger for when a scheduled run failed.
func RunArchiveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := Run(database.DB, time.Now())
		if err != nil {
			if errors.Is(err, ErrRunInProgress) {
				return fiber.NewError(fiber.StatusConflict, "An archive run is already in progress")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Archive run failed, stock is unchanged")
		}
		return c.JSON(fiber.Map{
			"processed": res.Processed,
			"week":      res.Week,
			"year":      res.Year,
		})
	}
}

// GET /api/weekly-snapshots?week=5&year=2026&item_id=7
func ListSnapshotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.WeeklySnapshot{})

		if week := c.QueryInt("week"); week > 0 {
			dbq = dbq.Where("week = ?", week)
		}
		if year := c.QueryInt("year"); year > 0 {
			dbq = dbq.Where("year = ?", year)
		}
		if itemID := c.QueryInt("item_id"); itemID > 0 {
			dbq = dbq.Where("item_id = ?", itemID)
		}

		var snapshots []models.WeeklySnapshot
		if err := dbq.
			Order("year DESC, week DESC, category ASC, label ASC").
			Find(&snapshots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list snapshots")
		}

		resp := make([]SnapshotResponse, 0, len(snapshots))
		for _, s := range snapshots {
			resp = append(resp, SnapshotResponse{
				ID:       s.ID,
				ItemID:   s.ItemID,
				Category: s.Category,
				Label:    s.Label,
				Quantity: s.Quantity,
				Date:     s.Date.Format("2006-01-02"),
				Week:     s.Week,
				Year:     s.Year,
			})
		}
		return c.JSON(resp)
	}
}
