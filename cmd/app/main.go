package main

import (
	"ShardStore/cmd/config"
	migration "ShardStore/cmd/database/migrate"
	"ShardStore/internal/utils"
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)
	log.Info("Starting soul shard store...")

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect store database: %v", err)
	}
	charDB, err := config.ConnectCharactersDB()
	if err != nil {
		log.Fatalf("failed to connect characters database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate store database: %v", err)
	}

	app, err := config.NewApp(db, charDB)
	if err != nil {
		log.Fatalf("failed to configure app: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
