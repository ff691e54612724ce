package database

import (
	"log"
	"time"

	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := config.AppConfig.Server.DBDSN
	if dsn == "" {
		log.Fatal("Error: DB_DSN not configured. Set it in .env or the environment.")
	}

	var err error

	// Wait for Postgres to be ready (fresh containers take a moment)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("Connected to Postgres")

	err = DB.AutoMigrate(
		&models.Cashier{},
		&models.Product{},
		&models.Transaction{},
		&models.TransactionItem{},
	)
	if err != nil {
		log.Fatal("Auto-migration failed:", err)
	}

	log.Println("Database schema synced")
}
