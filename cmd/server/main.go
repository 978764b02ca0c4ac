package main

import (
	"log"
	"strings"

	"hotelstock-backend/internal/admin"
	"hotelstock-backend/internal/archive"
	"hotelstock-backend/internal/auth"
	"hotelstock-backend/internal/config"
	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"
	"hotelstock-backend/internal/notification"
	"hotelstock-backend/internal/realtime"
	"hotelstock-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Realtime channel (token in query string, checked before upgrade)
	app.Use("/ws", realtime.UpgradeMiddleware(cfg))
	app.Get("/ws", realtime.WSHandler())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Stock ledger
	protected.Post("/stock-items", stock.CreateStockItemHandler())
	protected.Get("/stock-items", stock.ListStockItemsHandler())
	protected.Get("/stock-items/:id", stock.GetStockItemHandler())
	protected.Put("/stock-items/:id", stock.UpdateStockItemHandler())
	protected.Delete("/stock-items/:id", stock.DeleteStockItemHandler())
	protected.Post("/stock-items/:id/add", stock.AddQuantityHandler())

	// Losses (breakage, waste)
	protected.Post("/losses", stock.CreateLossHandler())
	protected.Get("/losses", stock.ListLossesHandler())

	// Weekly history
	protected.Get("/weekly-snapshots", archive.ListSnapshotsHandler())

	// Notifications (durable side of the realtime channel)
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Get("/notifications/unread-count", notification.UnreadCountHandler())
	protected.Put("/notifications/:id/read", notification.MarkReadHandler())

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	adminRoutes.Post("/archive/run", archive.RunArchiveHandler())
	adminRoutes.Get("/weekly-snapshots/export", archive.ExportSnapshotsHandler())

	adminRoutes.Post("/notifications/backup", notification.BackupHandler())
	adminRoutes.Get("/notification-backups", notification.ListBackupsHandler())

	// Weekly archive job
	if _, err := archive.StartScheduler(cfg); err != nil {
		log.Fatalf("Could not start archive scheduler: %v", err)
	}

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
