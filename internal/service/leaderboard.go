package service

import (
	"context"
	"fmt"
	"math"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository"
)

type ScoreTotalsRepository interface {
	TotalsByEvent(ctx context.Context, eventID uint) ([]repository.ParticipantTotal, error)
}

type LeaderboardService struct {
	scores ScoreTotalsRepository
}

func NewLeaderboardService(scores ScoreTotalsRepository) *LeaderboardService {
	return &LeaderboardService{
		scores: scores,
	}
}

// TopScore returns the highest per-participant total and the number of
// participants with at least one score entry.
func (s *LeaderboardService) TopScore(ctx context.Context, eventID uint) (int, int, error) {
	totals, err := s.scores.TotalsByEvent(ctx, eventID)
	if err != nil {
		return 0, 0, fmt.Errorf("s.scores.TotalsByEvent -> %w", err)
	}
	if len(totals) == 0 {
		return 0, 0, nil
	}

	// Totals come back ordered highest first.
	return totals[0].Total, len(totals), nil
}

// ParticipantRank computes the identity's total, dense rank and
// percentile among all scored participants of the event. The rank is
// dense: tied totals share a rank and the next distinct total follows
// without a gap. The percentile is the cumulative-distribution value,
// the share of scored participants whose total is at most the
// identity's, on a 0-100 scale rounded to two decimals.
//
// When the identity has no score entries the zero rank is returned with
// the event aggregates still filled in, so callers can fall back to
// reporting just the top score.
func (s *LeaderboardService) ParticipantRank(ctx context.Context, eventID uint, identity string) (domain.LeaderboardRank, error) {
	totals, err := s.scores.TotalsByEvent(ctx, eventID)
	if err != nil {
		return domain.LeaderboardRank{}, fmt.Errorf("s.scores.TotalsByEvent -> %w", err)
	}

	rank := domain.LeaderboardRank{
		ParticipantCount: len(totals),
	}
	if len(totals) > 0 {
		rank.HighestTotal = totals[0].Total
	}

	found := false
	denseRank := 0
	previousTotal := 0
	atOrBelow := 0
	for _, total := range totals {
		if denseRank == 0 || total.Total < previousTotal {
			denseRank++
			previousTotal = total.Total
		}
		if total.Participant == identity {
			found = true
			rank.Total = total.Total
			rank.Rank = denseRank
		}
	}
	if !found {
		return rank, nil
	}

	for _, total := range totals {
		if total.Total <= rank.Total {
			atOrBelow++
		}
	}
	percentile := 100 * float64(atOrBelow) / float64(len(totals))
	rank.Percentile = math.Round(percentile*100) / 100

	return rank, nil
}
