package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/model"
)

// WordSeeder handles seeding catalog words
type WordSeeder struct {
	db *gorm.DB
}

// NewWordSeeder creates a new word seeder
func NewWordSeeder(db *gorm.DB) *WordSeeder {
	return &WordSeeder{db: db}
}

// SeedWords seeds the catalog with a Spanish starter vocabulary
func (s *WordSeeder) SeedWords() error {
	words := s.getStarterWords()

	for _, word := range words {
		var existing model.Word
		if err := s.db.Where("id = ?", word.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&word).Error; err != nil {
					log.Printf("Error creating word %s: %v", word.Term, err)
					return err
				}
				log.Printf("Created word: %s", word.Term)
			} else {
				log.Printf("Error checking word %s: %v", word.Term, err)
				return err
			}
		} else {
			log.Printf("Word %s already exists, skipping", word.Term)
		}
	}

	log.Println("Word seeding completed successfully")
	return nil
}

func (s *WordSeeder) getStarterWords() []model.Word {
	now := time.Now()

	words := []model.Word{
		{ID: "word_hola", Term: "hola", Translation: "hello", Category: "greetings", Example: "¡Hola! ¿Cómo estás?"},
		{ID: "word_adios", Term: "adiós", Translation: "goodbye", Category: "greetings", Example: "Adiós, hasta mañana."},
		{ID: "word_gracias", Term: "gracias", Translation: "thank you", Category: "greetings", Example: "Muchas gracias por tu ayuda."},
		{ID: "word_por_favor", Term: "por favor", Translation: "please", Category: "greetings", Example: "Un café, por favor."},
		{ID: "word_buenos_dias", Term: "buenos días", Translation: "good morning", Category: "greetings", Example: "Buenos días, señora."},

		{ID: "word_agua", Term: "agua", Translation: "water", Category: "food", Example: "Un vaso de agua, por favor."},
		{ID: "word_pan", Term: "pan", Translation: "bread", Category: "food", Example: "El pan está recién hecho."},
		{ID: "word_leche", Term: "leche", Translation: "milk", Category: "food", Example: "Café con leche."},
		{ID: "word_manzana", Term: "manzana", Translation: "apple", Category: "food", Example: "La manzana es roja."},
		{ID: "word_queso", Term: "queso", Translation: "cheese", Category: "food", Example: "Me gusta el queso manchego."},

		{ID: "word_casa", Term: "casa", Translation: "house", Category: "places", Example: "Mi casa está cerca del parque."},
		{ID: "word_escuela", Term: "escuela", Translation: "school", Category: "places", Example: "Los niños van a la escuela."},
		{ID: "word_ciudad", Term: "ciudad", Translation: "city", Category: "places", Example: "Madrid es una ciudad grande."},
		{ID: "word_playa", Term: "playa", Translation: "beach", Category: "places", Example: "Vamos a la playa en verano."},
		{ID: "word_mercado", Term: "mercado", Translation: "market", Category: "places", Example: "Compro fruta en el mercado."},

		{ID: "word_perro", Term: "perro", Translation: "dog", Category: "animals", Example: "El perro corre en el jardín."},
		{ID: "word_gato", Term: "gato", Translation: "cat", Category: "animals", Example: "El gato duerme todo el día."},
		{ID: "word_pajaro", Term: "pájaro", Translation: "bird", Category: "animals", Example: "Un pájaro canta en el árbol."},
		{ID: "word_caballo", Term: "caballo", Translation: "horse", Category: "animals", Example: "El caballo es muy rápido."},
		{ID: "word_pez", Term: "pez", Translation: "fish", Category: "animals", Example: "Hay un pez en el acuario."},
	}

	for i := range words {
		words[i].IsActive = true
		words[i].CreatedAt = now
		words[i].UpdatedAt = now
	}
	return words
}
