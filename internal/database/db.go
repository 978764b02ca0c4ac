package database

import (
	"log"

	"hotelstock-backend/internal/config"
	"hotelstock-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.StockItem{},
		&models.LossEntry{},
		&models.WeeklySnapshot{},
		&models.Notification{},
		&models.NotificationBackup{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}
