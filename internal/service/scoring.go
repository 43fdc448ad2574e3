package service

import (
	"context"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
)

type ScoreRegistry interface {
	ResolveToken(ctx context.Context, value string) (domain.VirtualToken, error)
	CommonEvents(ctx context.Context, identityA, identityB string) ([]uint, error)
}

type ScoreLedger interface {
	Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, bool, error)
}

type ScoringService struct {
	registry ScoreRegistry
	scores   ScoreLedger
}

func NewScoringService(registry ScoreRegistry, scores ScoreLedger) *ScoringService {
	return &ScoringService{
		registry: registry,
		scores:   scores,
	}
}

// ScoreInteraction awards one activity point to the primary token's
// owner when its contact is exchanged with the counterpart token's
// owner. Scoring is best-effort: when the two owners share no event the
// call is a no-op, not an error, because a scan across unrelated events
// is a normal occurrence. The dedup key is order-sensitive, so the
// reversed exchange is a distinct interaction and may score once too.
//
// Returns nil when nothing was scored.
func (s *ScoringService) ScoreInteraction(ctx context.Context, primaryValue, counterpartValue string) (*domain.ScoreEntry, error) {
	primary, err := s.registry.ResolveToken(ctx, primaryValue)
	if err != nil {
		return nil, err
	}

	counterpart, err := s.registry.ResolveToken(ctx, counterpartValue)
	if err != nil {
		return nil, err
	}

	eventIDs, err := s.registry.CommonEvents(ctx, primary.Owner, counterpart.Owner)
	if err != nil {
		return nil, fmt.Errorf("s.registry.CommonEvents -> %w", err)
	}
	if len(eventIDs) == 0 {
		return nil, nil
	}

	// Prefer the event the primary token was issued for when the
	// owners share several.
	eventID := eventIDs[0]
	for _, id := range eventIDs {
		if id == primary.EventID {
			eventID = id
			break
		}
	}

	entry, inserted, err := s.scores.Append(ctx, domain.ScoreEntry{
		EventID:      eventID,
		Participant:  primary.Owner,
		Score:        1,
		ReferenceKey: fmt.Sprintf("%d:%s:%s", eventID, primary.Owner, counterpart.Owner),
	})
	if err != nil {
		return nil, fmt.Errorf("s.scores.Append -> %w", err)
	}
	if !inserted {
		return nil, nil
	}

	return &entry, nil
}
