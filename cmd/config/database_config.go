package config

import (
	"ShardStore/internal/utils"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the store database: balances, purchases, catalog, audit.
func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		utils.GetConfig("DB_HOST"),
		utils.GetConfig("DB_USER"),
		utils.GetConfig("DB_PASSWORD"),
		utils.GetConfig("DB_NAME"),
		utils.GetConfig("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}

// ConnectCharactersDB opens the game server's characters database. The game
// server process owns these tables; the store only reads them and removes
// item/mail rows during refund cleanup.
func ConnectCharactersDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		utils.GetConfig("CHARDB_HOST"),
		utils.GetConfig("CHARDB_USER"),
		utils.GetConfig("CHARDB_PASSWORD"),
		utils.GetConfig("CHARDB_NAME"),
		utils.GetConfig("CHARDB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Characters database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}
