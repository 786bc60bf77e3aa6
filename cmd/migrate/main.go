package main

import (
	"log"

	"warung-pos/config"
	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/domain/chat"
	"warung-pos/internal/domain/customer"
	"warung-pos/internal/domain/message"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/domain/sales"
	"warung-pos/internal/domain/store"
	"warung-pos/internal/domain/user"
	"warung-pos/pkg/database"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Extensions and other DDL AutoMigrate cannot own.
	if err := database.ApplyRawMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to apply raw migrations: %v", err)
	}

	if err := db.AutoMigrate(
		&user.User{},
		&user.UserSession{},
		&profile.Profile{},
		&chat.Chat{},
		&chat.Participant{},
		&chat.TypingIndicator{},
		&message.Message{},
		&catalog.Product{},
		&customer.Customer{},
		&sales.Transaction{},
		&sales.TransactionItem{},
		&sales.DailyReport{},
		&store.Settings{},
	); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	log.Println("Migrations applied")
}
