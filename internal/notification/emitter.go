package notification

import (
	"log"
	"time"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"
	"hotelstock-backend/internal/realtime"
)

// Emit records a stock increase and pushes it to connected consumers. delta
// is the amount added, not the item's new total. Movement date/time are taken
// from the server clock at emission; caller-supplied movement dates apply to
// the StockItem only.
//
// Emit never reports failure to the caller: the stock mutation that triggered
// it has already succeeded, and stock correctness takes priority over
// notification delivery. Failures are logged and swallowed.
func Emit(item models.StockItem, delta float64) {
	now := time.Now()
	n := models.Notification{
		ItemID:       item.ID,
		Category:     item.Category,
		Label:        item.Label,
		Quantity:     delta,
		Unit:         item.Unit,
		Price:        item.Price,
		MovementDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		MovementTime: now.Format("15:04:05"),
	}

	if err := database.DB.Create(&n).Error; err != nil {
		log.Printf("notification for item %d (+%.2f) was not recorded: %v", item.ID, delta, err)
		return
	}

	realtime.Broadcast(EventNew, toResponse(n))
}
