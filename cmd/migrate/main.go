package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/you/booklib/internal/config"
	"github.com/you/booklib/internal/infrastructure/auth"
	"github.com/you/booklib/internal/infrastructure/database"
)

// Applies the embedded migrations, seeds the default policies and reports table counts
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	dsn := cfg.DSN
	if envDSN := os.Getenv("TEST_DATABASE_DSN"); envDSN != "" {
		dsn = envDSN
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()
	fmt.Println("migrations applied")

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		log.Fatalf("casbin: %v", err)
	}
	seeded, err := cas.SeedDefaults()
	if err != nil {
		log.Fatalf("casbin seed: %v", err)
	}
	if seeded {
		fmt.Println("default policies seeded")
	}

	for _, table := range []string{"users", "otp_tokens", "revoked_tokens", "categories", "books", "casbin_rule"} {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			log.Fatalf("count %s: %v", table, err)
		}
		fmt.Printf("%-15s %d rows\n", table, n)
	}
}
