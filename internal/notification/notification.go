package notification

import "hotelstock-backend/internal/models"

// EventNew is the realtime event name for freshly emitted notifications,
// distinct from any generic CRUD event.
const EventNew = "notification:new"

type NotificationResponse struct {
	ID           uint     `json:"id"`
	ItemID       uint     `json:"item_id"`
	Category     string   `json:"category"`
	Label        string   `json:"label"`
	Quantity     float64  `json:"quantity"` // delta added, not current stock
	Unit         string   `json:"unit"`
	Price        *float64 `json:"price"`
	MovementDate string   `json:"movement_date"`
	MovementTime string   `json:"movement_time"`
	Read         bool     `json:"read"`
}

func toResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		ItemID:       n.ItemID,
		Category:     n.Category,
		Label:        n.Label,
		Quantity:     n.Quantity,
		Unit:         n.Unit,
		Price:        n.Price,
		MovementDate: n.MovementDate.Format("2006-01-02"),
		MovementTime: n.MovementTime,
		Read:         n.Read,
	}
}
