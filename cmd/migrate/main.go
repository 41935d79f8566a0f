package main

import (
	"log"

	"wms-ops-agent/internal/cli"
	"wms-ops-agent/internal/config"
	"wms-ops-agent/pkg/database"
)

// Same as `opsctl migrate`, kept as its own binary for deploy jobs.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// pgcrypto backs gen_random_uuid() for rows written outside the service
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("warn: enable pgcrypto: %v", err)
	}

	n, err := cli.Migrate(db)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrated %d tables", n)
}
