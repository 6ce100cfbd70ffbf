package main

import (
	"fmt"
	"log"

	"github.com/localnerve/canconnect/internal/config"
	"github.com/localnerve/canconnect/internal/database"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/models"
)

// Prints the record store table as GORM creates it on sqlite
func main() {
	cfg := &config.Config{
		DBType:               "sqlite",
		DBDatabase:           ":memory:",
		DBAppConnectionLimit: 1,
		LogLevel:             "warn",
	}

	db, err := database.Connect(cfg, logger.NewNoOpLogger())
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}

	columns, err := db.Migrator().ColumnTypes(&models.StorageEntry{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n=== Columns: %s ===\n", models.StorageEntry{}.TableName())
	for _, c := range columns {
		nullable, _ := c.Nullable()
		fmt.Printf("%-16s %-12s nullable=%t\n", c.Name(), c.DatabaseTypeName(), nullable)
	}
}
