package realtime

import (
	"hotelstock-backend/internal/auth"
	"hotelstock-backend/internal/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// UpgradeMiddleware gates the websocket endpoint. Browsers cannot set an
// Authorization header on a websocket handshake, so the token travels in the
// query string.
func UpgradeMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(auth.CtxUserIDKey, claims.UserID)
		c.Locals(auth.CtxUserRoleKey, claims.Role)
		return c.Next()
	}
}

// GET /ws?token=<jwt>
func WSHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		cl := &client{send: make(chan []byte, sendBuffer)}
		defaultHub.add(cl)
		defer defaultHub.remove(cl)

		go func() {
			// Inbound frames are discarded; the read loop only notices the
			// peer going away and unblocks the writer below.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					defaultHub.remove(cl)
					return
				}
			}
		}()

		for msg := range cl.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	})
}
