package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreEntry struct {
	ID           uint   `gorm:"primaryKey"`
	EventID      uint   `gorm:"not null;index"`
	Participant  string `gorm:"not null"`
	Score        int    `gorm:"not null"`
	ReferenceKey string `gorm:"not null;uniqueIndex"`

	CreatedAt time.Time
}

// ParticipantTotal is one row of the per-participant score aggregate.
type ParticipantTotal struct {
	Participant string
	Total       int
}

type ScoreDAO struct {
	db *gorm.DB
}

func NewScoreDAO(db *gorm.DB) *ScoreDAO {
	return &ScoreDAO{
		db: db,
	}
}

// InsertIgnoreDuplicate appends the entry unless its reference key is
// already present. The unique index makes the existence check and the
// insert one atomic step, so concurrent double-submission of the same
// interaction scores at most once. Returns false when skipped.
func (d *ScoreDAO) InsertIgnoreDuplicate(ctx context.Context, entry ScoreEntry) (ScoreEntry, bool, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference_key"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		return ScoreEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return ScoreEntry{}, false, nil
	}

	return entry, true, nil
}

// TotalsByEvent returns the summed score per participant with at least
// one entry, highest total first.
func (d *ScoreDAO) TotalsByEvent(ctx context.Context, eventID uint) ([]ParticipantTotal, error) {
	var totals []ParticipantTotal

	result := d.db.WithContext(ctx).
		Model(&ScoreEntry{}).
		Select("participant, SUM(score) AS total").
		Where("event_id = ?", eventID).
		Group("participant").
		Order("total DESC").
		Scan(&totals)
	if result.Error != nil {
		return nil, result.Error
	}

	return totals, nil
}
