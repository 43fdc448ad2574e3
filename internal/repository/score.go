package repository

import (
	"context"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

// ParticipantTotal mirrors one row of the per-participant aggregate.
type ParticipantTotal struct {
	Participant string
	Total       int
}

type ScoreDAO interface {
	InsertIgnoreDuplicate(ctx context.Context, entry dao.ScoreEntry) (dao.ScoreEntry, bool, error)
	TotalsByEvent(ctx context.Context, eventID uint) ([]dao.ParticipantTotal, error)
}

type ScoreRepository struct {
	dao ScoreDAO
}

func NewScoreRepository(dao ScoreDAO) *ScoreRepository {
	return &ScoreRepository{
		dao: dao,
	}
}

// Append stores the entry unless its reference key already exists.
// Returns false when the entry was skipped as a duplicate.
func (r *ScoreRepository) Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, bool, error) {
	created, inserted, err := r.dao.InsertIgnoreDuplicate(ctx, dao.ScoreEntry{
		EventID:      entry.EventID,
		Participant:  entry.Participant,
		Score:        entry.Score,
		ReferenceKey: entry.ReferenceKey,
	})
	if err != nil {
		return domain.ScoreEntry{}, false, fmt.Errorf("r.dao.InsertIgnoreDuplicate -> %w", err)
	}
	if !inserted {
		return domain.ScoreEntry{}, false, nil
	}

	return r.daoToDomain(created), true, nil
}

func (r *ScoreRepository) TotalsByEvent(ctx context.Context, eventID uint) ([]ParticipantTotal, error) {
	totalsDAO, err := r.dao.TotalsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.TotalsByEvent -> %w", err)
	}

	totals := make([]ParticipantTotal, len(totalsDAO))
	for i, total := range totalsDAO {
		totals[i] = ParticipantTotal{
			Participant: total.Participant,
			Total:       total.Total,
		}
	}

	return totals, nil
}

func (r *ScoreRepository) daoToDomain(s dao.ScoreEntry) domain.ScoreEntry {
	return domain.ScoreEntry{
		ID:           s.ID,
		EventID:      s.EventID,
		Participant:  s.Participant,
		Score:        s.Score,
		ReferenceKey: s.ReferenceKey,
		CreatedAt:    s.CreatedAt,
	}
}
