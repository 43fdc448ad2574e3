package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository"
)

var (
	ErrQuotaExceeded = repository.ErrQuotaExceeded
)

type GrantRepository interface {
	AppendChecked(ctx context.Context, grant domain.ItemGrant, rule domain.ItemRule) (domain.ItemGrant, error)
	CountByParticipant(ctx context.Context, eventID uint, item string, participantID uint) (int64, error)
}

type EventCatalog interface {
	IsEventAdmin(ctx context.Context, eventID uint, identity string) (bool, error)
	ResolveRule(ctx context.Context, eventID uint, item, participantType string) (domain.ItemRule, error)
}

type TokenRegistry interface {
	ResolveToken(ctx context.Context, value string) (domain.VirtualToken, error)
	Lookup(ctx context.Context, eventID uint, identity string) (domain.Participant, error)
}

// keyedMutex serializes writers per key. Entries are never removed;
// the key space is bounded by the event catalog.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

type DistributionService struct {
	catalog  EventCatalog
	registry TokenRegistry
	grants   GrantRepository
	locks    *keyedMutex
}

func NewDistributionService(catalog EventCatalog, registry TokenRegistry, grants GrantRepository) *DistributionService {
	return &DistributionService{
		catalog:  catalog,
		registry: registry,
		grants:   grants,
		locks:    newKeyedMutex(),
	}
}

// Distribute hands one unit of the item to the holder of the token,
// enforcing the per-participant and per-bucket caps.
//
// Writers racing on the same (event, item, participant_type) bucket are
// serialized in-process, which turns the ledger's pre-check into a true
// check-and-append for a single instance. The transactional post-check
// in the ledger stays as the backstop for multi-instance deployments,
// where a racing writer on another instance can still slip past the
// pre-check; in that case the loser's append is rolled back and the
// caps hold.
func (s *DistributionService) Distribute(ctx context.Context, eventID uint, item, tokenValue, actor string) (domain.ItemGrant, error) {
	isAdmin, err := s.catalog.IsEventAdmin(ctx, eventID, actor)
	if err != nil {
		return domain.ItemGrant{}, fmt.Errorf("s.catalog.IsEventAdmin -> %w", err)
	}
	if !isAdmin {
		return domain.ItemGrant{}, ErrNotEventAdmin
	}

	token, err := s.registry.ResolveToken(ctx, tokenValue)
	if err != nil {
		return domain.ItemGrant{}, err
	}

	participant, err := s.registry.Lookup(ctx, eventID, token.Owner)
	if err != nil {
		return domain.ItemGrant{}, err
	}

	rule, err := s.catalog.ResolveRule(ctx, eventID, item, participant.ParticipantType)
	if err != nil {
		return domain.ItemGrant{}, err
	}

	unlock := s.locks.Lock(fmt.Sprintf("%d/%s/%s", eventID, item, rule.ParticipantType))
	defer unlock()

	grant, err := s.grants.AppendChecked(ctx, domain.ItemGrant{
		EventID:        eventID,
		Item:           item,
		ParticipantID:  participant.ID,
		ReferenceToken: token.Value,
	}, rule)
	if err != nil {
		return domain.ItemGrant{}, err
	}

	return grant, nil
}
