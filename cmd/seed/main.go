// Seeds the database with sample cards and ~30 days of synthetic price
// history so the query API has data during frontend development. Safe to
// re-run: writes go through the same delete-then-insert upsert as ingestion.
package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-pricewatch/internal/config"
	"github.com/codyseavey/tcg-pricewatch/internal/database"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

type seedCard struct {
	card      models.Card
	basePrice float64
	variant   string
}

var seedCards = []seedCard{
	{models.Card{ID: "swsh4-25", Name: "Charizard", SetID: "swsh4", SetName: "Vivid Voltage", Number: "25", Rarity: "Rare", Supertype: "Pokémon"}, 2.50, "normal"},
	{models.Card{ID: "swsh7-169", Name: "Flareon V", SetID: "swsh7", SetName: "Evolving Skies", Number: "169", Rarity: "Rare Holo V", Supertype: "Pokémon"}, 8.00, "holofoil"},
	{models.Card{ID: "swsh7-170", Name: "Jolteon V", SetID: "swsh7", SetName: "Evolving Skies", Number: "170", Rarity: "Rare Holo V", Supertype: "Pokémon"}, 6.50, "holofoil"},
	{models.Card{ID: "swsh7-171", Name: "Vaporeon V", SetID: "swsh7", SetName: "Evolving Skies", Number: "171", Rarity: "Rare Holo V", Supertype: "Pokémon"}, 7.00, "holofoil"},
	{models.Card{ID: "swsh7-18", Name: "Flareon VMAX", SetID: "swsh7", SetName: "Evolving Skies", Number: "18", Rarity: "Rare Holo VMAX", Supertype: "Pokémon"}, 22.00, "holofoil"},
	{models.Card{ID: "swsh7-30", Name: "Vaporeon VMAX", SetID: "swsh7", SetName: "Evolving Skies", Number: "30", Rarity: "Rare Holo VMAX", Supertype: "Pokémon"}, 25.00, "holofoil"},
	{models.Card{ID: "swsh7-51", Name: "Jolteon VMAX", SetID: "swsh7", SetName: "Evolving Skies", Number: "51", Rarity: "Rare Holo VMAX", Supertype: "Pokémon"}, 18.00, "holofoil"},
}

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	today := models.SnapshotDay(time.Now())

	for _, sc := range seedCards {
		card := sc.card
		card.UpdatedAt = time.Now()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&card).Error; err != nil {
			log.Fatalf("Failed to seed card %s: %v", card.ID, err)
		}

		// ~30 days of history, market trending slightly up toward today.
		for d := 0; d < 30; d++ {
			day := today.AddDate(0, 0, -d)
			market := round2(sc.basePrice * (1 + 0.002*float64(30-d)))
			snap := models.PriceSnapshot{
				CardID:       card.ID,
				SnapshotDate: day,
				Variant:      sc.variant,
				Source:       models.SourceTCGPlayer,
				Low:          ptr(round2(market * 0.85)),
				Mid:          ptr(market),
				High:         ptr(round2(market * 1.25)),
				Market:       ptr(market),
				DirectLow:    ptr(round2(market * 0.95)),
			}

			if err := db.Where(
				"card_id = ? AND snapshot_date = ? AND variant = ? AND source = ?",
				snap.CardID, snap.SnapshotDate, snap.Variant, snap.Source,
			).Delete(&models.PriceSnapshot{}).Error; err != nil {
				log.Fatalf("Failed to clear seed snapshot for %s: %v", card.ID, err)
			}
			if err := db.Create(&snap).Error; err != nil {
				log.Fatalf("Failed to seed snapshot for %s: %v", card.ID, err)
			}
		}
	}

	fmt.Printf("Seeded %d cards with 30 days of price history.\n", len(seedCards))
}

func ptr(f float64) *float64 {
	return &f
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
