package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/model"
)

// GuideSeeder handles seeding curated guides
type GuideSeeder struct {
	db *gorm.DB
}

// NewGuideSeeder creates a new guide seeder
func NewGuideSeeder(db *gorm.DB) *GuideSeeder {
	return &GuideSeeder{db: db}
}

// SeedGuides seeds the starter guides
func (s *GuideSeeder) SeedGuides() error {
	guides := s.getStarterGuides()

	for _, guide := range guides {
		var existing model.Guide
		if err := s.db.Where("id = ?", guide.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&guide).Error; err != nil {
					log.Printf("Error creating guide %s: %v", guide.Title, err)
					return err
				}
				log.Printf("Created guide: %s", guide.Title)
			} else {
				log.Printf("Error checking guide %s: %v", guide.Title, err)
				return err
			}
		} else {
			log.Printf("Guide %s already exists, skipping", guide.Title)
		}
	}

	log.Println("Guide seeding completed successfully")
	return nil
}

func (s *GuideSeeder) getStarterGuides() []model.Guide {
	now := time.Now()

	guides := []model.Guide{
		{
			ID:          "guide_first_steps",
			Title:       "First Steps in Spanish",
			Description: "The greetings every beginner needs on day one.",
			Category:    "greetings",
			WordIDs: jsonArray([]string{
				"word_hola", "word_adios", "word_gracias", "word_por_favor", "word_buenos_dias",
			}),
		},
		{
			ID:          "guide_at_the_table",
			Title:       "At the Table",
			Description: "Basic food and drink vocabulary for your first meal out.",
			Category:    "food",
			WordIDs: jsonArray([]string{
				"word_agua", "word_pan", "word_leche", "word_manzana", "word_queso",
			}),
		},
		{
			ID:          "guide_around_town",
			Title:       "Around Town",
			Description: "Places you will name every day.",
			Category:    "places",
			WordIDs: jsonArray([]string{
				"word_casa", "word_escuela", "word_ciudad", "word_playa", "word_mercado",
			}),
		},
		{
			ID:          "guide_animal_friends",
			Title:       "Animal Friends",
			Description: "Common animals, common conversations.",
			Category:    "animals",
			WordIDs: jsonArray([]string{
				"word_perro", "word_gato", "word_pajaro", "word_caballo", "word_pez",
			}),
		},
	}

	for i := range guides {
		guides[i].IsActive = true
		guides[i].CreatedAt = now
		guides[i].UpdatedAt = now
	}
	return guides
}

func jsonArray(items []string) json.RawMessage {
	data, _ := json.Marshal(items)
	return data
}
