package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-pricewatch/internal/metrics"
	"github.com/codyseavey/tcg-pricewatch/internal/models"
)

// SnapshotStore persists the card catalog and price snapshots. All writes
// for one card happen inside a single transaction; a failure rolls the whole
// card back but never touches other cards in the run.
type SnapshotStore struct {
	db *gorm.DB

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{
		db:  db,
		now: time.Now,
	}
}

// Persist upserts the Card row and writes one snapshot row per normalized
// price. Snapshot writes are delete-then-insert on the natural key
// (card, today, variant, source), so re-persisting on the same calendar day
// replaces the earlier rows instead of duplicating them. Returns the number
// of snapshot rows written; 0 is valid for a payload without parseable
// prices.
func (s *SnapshotStore) Persist(cardID string, payload *models.CardPayload) (int, error) {
	now := s.now()
	rows := Normalize(payload, now)

	card := models.Card{
		ID:        cardID,
		Name:      payload.Name,
		SetID:     payload.SetID,
		SetName:   payload.SetName,
		Number:    payload.Number,
		Rarity:    payload.Rarity,
		Supertype: payload.Supertype,
		ImageURL:  payload.ImageURL,
		UpdatedAt: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Merge semantics: descriptive fields replaced, ID immutable.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&card).Error; err != nil {
			return fmt.Errorf("failed to upsert card %s: %w", cardID, err)
		}

		for i := range rows {
			rows[i].CardID = cardID
			if err := tx.Where(
				"card_id = ? AND snapshot_date = ? AND variant = ? AND source = ?",
				cardID, rows[i].SnapshotDate, rows[i].Variant, rows[i].Source,
			).Delete(&models.PriceSnapshot{}).Error; err != nil {
				return fmt.Errorf("failed to clear snapshot for %s: %w", cardID, err)
			}
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to insert snapshot for %s: %w", cardID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.SnapshotRowsWrittenTotal.Add(float64(len(rows)))
	return len(rows), nil
}

// GetCard returns a single catalog row, or nil when unknown.
func (s *SnapshotStore) GetCard(cardID string) (*models.Card, error) {
	var card models.Card
	if err := s.db.First(&card, "id = ?", cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// ListCards returns the whole catalog ordered by name.
func (s *SnapshotStore) ListCards() ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.Order("name ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// LatestPrice returns the most recent snapshot for a card, or nil when the
// card has no price history yet.
func (s *SnapshotStore) LatestPrice(cardID string) (*models.PriceSnapshot, error) {
	var snap models.PriceSnapshot
	err := s.db.Where("card_id = ?", cardID).
		Order("snapshot_date DESC, id DESC").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// History returns the snapshot series for a card in ascending date order.
// variant and source filter when non-empty; days bounds the lookback window
// when positive.
func (s *SnapshotStore) History(cardID, variant, source string, days int) ([]models.PriceSnapshot, error) {
	q := s.db.Where("card_id = ?", cardID)
	if variant != "" {
		q = q.Where("variant = ?", variant)
	}
	if source != "" {
		q = q.Where("source = ?", source)
	}
	if days > 0 {
		cutoff := models.SnapshotDay(s.now()).AddDate(0, 0, -days)
		q = q.Where("snapshot_date >= ?", cutoff)
	}

	var snaps []models.PriceSnapshot
	if err := q.Order("snapshot_date ASC, id ASC").Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}
