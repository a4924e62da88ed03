package model

import (
	"encoding/json"
	"time"
)

// Word is one catalog entry. The catalog is read-only from the progress
// subsystem's point of view; it is written by the seeder and admin tooling.
type Word struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Term        string    `json:"term" gorm:"not null;index"`
	Translation string    `json:"translation" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"`
	Example     string    `json:"example" gorm:"type:text"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Guide is a curated word set that can be bulk-enqueued into a user's
// tracking list.
type Guide struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Category    string          `json:"category"`
	WordIDs     json.RawMessage `json:"word_ids" gorm:"type:text"` // JSON array of word ids
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
