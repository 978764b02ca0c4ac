package stock

import (
	"time"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"
	"hotelstock-backend/internal/notification"

	"github.com/gofiber/fiber/v2"
)

type CreateStockItemRequest struct {
	ID       uint     `json:"id"` // hotel article number, assigned by the caller
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    *float64 `json:"price"`
	Date     string   `json:"date"` // optional movement date, "2026-01-29"
}

type UpdateStockItemRequest struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    *float64 `json:"price"`
	Date     string   `json:"date"`
}

type AddQuantityRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"` // optional, applies to the item only
}

type StockItemResponse struct {
	ID           uint     `json:"id"`
	Category     string   `json:"category"`
	Label        string   `json:"label"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	Price        *float64 `json:"price"`
	MovementDate string   `json:"movement_date"`
	CreatedAt    string   `json:"created_at"`
}

func toResponse(item models.StockItem) StockItemResponse {
	resp := StockItemResponse{
		ID:        item.ID,
		Category:  item.Category,
		Label:     item.Label,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Price:     item.Price,
		CreatedAt: item.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.MovementDate != nil {
		resp.MovementDate = item.MovementDate.Format("2006-01-02")
	}
	return resp
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Date format must be 'YYYY-MM-DD'")
	}
	return &d, nil
}

// POST /api/stock-items
func CreateStockItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is required and must be positive")
		}
		if body.Category == "" || body.Label == "" {
			return fiber.NewError(fiber.StatusBadRequest, "category and label are required")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
		}
		if body.Price != nil && *body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
		}

		var existing models.StockItem
		if err := database.DB.First(&existing, "id = ?", body.ID).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "An item with this id already exists")
		}

		movementDate, err := parseOptionalDate(body.Date)
		if err != nil {
			return err
		}

		item := models.StockItem{
			ID:           body.ID,
			Category:     body.Category,
			Label:        body.Label,
			Quantity:     body.Quantity,
			Unit:         body.Unit,
			Price:        body.Price,
			MovementDate: movementDate,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create stock item")
		}

		// A creation with initial stock is an increase from zero.
		if item.Quantity > 0 {
			notification.Emit(item, item.Quantity)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(item))
	}
}

// GET /api/stock-items?category=boisson/resto
func ListStockItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockItem{})
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}

		var items []models.StockItem
		if err := dbq.Order("category ASC, label ASC").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock items")
		}

		resp := make([]StockItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, toResponse(item))
		}
		return c.JSON(resp)
	}
}

// GET /api/stock-items/:id
func GetStockItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.StockItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock item not found")
		}
		return c.JSON(toResponse(item))
	}
}

// PUT /api/stock-items/:id
// A quantity raised above its previous value counts as a stock increase and
// emits a notification carrying the difference.
func UpdateStockItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.StockItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock item not found")
		}

		var body UpdateStockItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Category != "" {
			item.Category = body.Category
		}
		if body.Label != "" {
			item.Label = body.Label
		}
		if body.Unit != "" {
			item.Unit = body.Unit
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
			}
			item.Price = body.Price
		}
		if movementDate, err := parseOptionalDate(body.Date); err != nil {
			return err
		} else if movementDate != nil {
			item.MovementDate = movementDate
		}

		oldQuantity := item.Quantity
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
			}
			item.Quantity = *body.Quantity
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock item")
		}

		// Decreases and equal-value updates never notify.
		if item.Quantity > oldQuantity {
			notification.Emit(item, item.Quantity-oldQuantity)
		}

		return c.JSON(toResponse(item))
	}
}

// POST /api/stock-items/:id/add
func AddQuantityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body AddQuantityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
		}

		var item models.StockItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock item not found")
		}

		movementDate, err := parseOptionalDate(body.Date)
		if err != nil {
			return err
		}
		if movementDate == nil {
			now := time.Now()
			d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			movementDate = &d
		}

		item.Quantity += body.Amount
		item.MovementDate = movementDate

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update stock item")
		}

		notification.Emit(item, body.Amount)

		return c.JSON(toResponse(item))
	}
}

// DELETE /api/stock-items/:id
// History and notifications keep their copies; only losses cascade.
func DeleteStockItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.StockItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock item not found")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete stock item")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
