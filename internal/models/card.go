package models

import (
	"time"
)

// Card is the catalog entity: one row per provider-agnostic card ID
// (e.g. "swsh7-169"). Descriptive fields are overwritten on every fetch;
// the ID never changes.
type Card struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	SetID     string    `json:"set_id" gorm:"not null"`
	SetName   string    `json:"set_name"`
	Number    string    `json:"number"`
	Rarity    string    `json:"rarity"`
	Supertype string    `json:"supertype"` // Pokémon, Trainer, Energy
	ImageURL  string    `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}
