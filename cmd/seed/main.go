package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"studyflow/internal/config"
	"studyflow/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before setup (fresh start)")
	clearData := flag.Bool("clear-data", false, "Clear all user data (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Printf("Ensuring database schema is up to date (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *clearData {
		log.Println("Clearing user data...")
		// Children before parents; schema cascades handle the rest
		for _, table := range []string{tables.StudySessions, tables.Settings, tables.Cards, tables.Decks, tables.Folders, tables.Users} {
			if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				log.Fatalf("Failed to clear %s: %v", table, err)
			}
		}
		log.Println("Data cleared")
	}
}
