package stock

import (
	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLossRequest struct {
	ItemID   uint    `json:"item_id"`
	Quantity float64 `json:"quantity"`
	Comment  string  `json:"comment"`
}

type LossResponse struct {
	ID        uint    `json:"id"`
	ItemID    uint    `json:"item_id"`
	Label     string  `json:"label"`
	Quantity  float64 `json:"quantity"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"created_at"`
}

// POST /api/losses
// Losses are an independent path: they never feed the weekly archive run and
// never emit a notification.
func CreateLossHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLossRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_id is required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
		if body.Comment == "" {
			return fiber.NewError(fiber.StatusBadRequest, "comment is required")
		}

		var item models.StockItem
		if err := database.DB.First(&item, "id = ?", body.ItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock item not found")
		}

		// Quantity on hand never goes negative.
		if body.Quantity > item.Quantity {
			return fiber.NewError(fiber.StatusBadRequest, "Loss exceeds quantity on hand")
		}

		entry := models.LossEntry{
			ItemID:   body.ItemID,
			Quantity: body.Quantity,
			Comment:  body.Comment,
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record loss")
		}

		if err := database.DB.Model(&models.StockItem{}).
			Where("id = ?", item.ID).
			Update("quantity", item.Quantity-body.Quantity).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock item")
		}

		return c.Status(fiber.StatusCreated).JSON(LossResponse{
			ID:        entry.ID,
			ItemID:    entry.ItemID,
			Label:     item.Label,
			Quantity:  entry.Quantity,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/losses?item_id=7
func ListLossesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("Item").Model(&models.LossEntry{})
		if itemID := c.QueryInt("item_id"); itemID > 0 {
			dbq = dbq.Where("item_id = ?", itemID)
		}

		var entries []models.LossEntry
		if err := dbq.Order("created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list losses")
		}

		resp := make([]LossResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, LossResponse{
				ID:        e.ID,
				ItemID:    e.ItemID,
				Label:     e.Item.Label,
				Quantity:  e.Quantity,
				Comment:   e.Comment,
				CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}
