package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting catalog seeding...")

	// 1. Seed words first (no dependencies)
	wordSeeder := NewWordSeeder(s.db)
	if err := wordSeeder.SeedWords(); err != nil {
		log.Printf("Word seeding failed: %v", err)
		return err
	}

	// 2. Seed guides (reference word IDs)
	guideSeeder := NewGuideSeeder(s.db)
	if err := guideSeeder.SeedGuides(); err != nil {
		log.Printf("Guide seeding failed: %v", err)
		return err
	}

	log.Println("Catalog seeding completed successfully!")
	return nil
}

// SeedWordsOnly seeds only words
func (s *MainSeeder) SeedWordsOnly() error {
	wordSeeder := NewWordSeeder(s.db)
	return wordSeeder.SeedWords()
}

// SeedGuidesOnly seeds only guides
func (s *MainSeeder) SeedGuidesOnly() error {
	guideSeeder := NewGuideSeeder(s.db)
	return guideSeeder.SeedGuides()
}
