package migration

import (
	"ShardStore/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Migrate creates the store-owned tables. The game server's characters
// database is never migrated from here; those tables belong to the game
// server.
func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.Balance{}); err != nil {
		log.Fatalf("Error migrating balance database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Purchase{}); err != nil {
		log.Fatalf("Error migrating purchase database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShopItem{}); err != nil {
		log.Fatalf("Error migrating shop item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShopSet{}); err != nil {
		log.Fatalf("Error migrating shop set database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ShopSetPiece{}); err != nil {
		log.Fatalf("Error migrating shop set piece database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.AuditLog{}); err != nil {
		log.Fatalf("Error migrating audit log database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
