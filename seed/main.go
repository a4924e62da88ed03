package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, words, guides")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := gorm.Open(postgres.Open(databaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.Word{}, &model.Guide{}); err != nil {
		log.Fatalf("Failed to migrate catalog tables: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete catalog seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	case "words":
		log.Println("Seeding words only...")
		if err := mainSeeder.SeedWordsOnly(); err != nil {
			log.Fatalf("Failed to seed words: %v", err)
		}
	case "guides":
		log.Println("Seeding guides only...")
		if err := mainSeeder.SeedGuidesOnly(); err != nil {
			log.Fatalf("Failed to seed guides: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'words', or 'guides'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func databaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", ""),
		getenv("DB_NAME", "wordtrail"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func showHelp() {
	log.Println(`
Catalog Seeding Tool for WordTrail

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, words, guides
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only words
  go run seed/main.go -type=words

  # Seed only guides
  go run seed/main.go -type=guides

Environment Variables:
  DATABASE_URL - Full postgres DSN (overrides DB_* variables)
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME`)
}
