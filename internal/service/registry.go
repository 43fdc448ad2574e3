package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository"
)

var (
	ErrNotRegistered = errors.New("identity is not registered for this event")
	ErrInvalidToken  = errors.New("virtual token does not exist")
)

type ParticipantRepository interface {
	Register(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	FindByEventAndIdentity(ctx context.Context, eventID uint, identity string) (domain.Participant, error)
	FindCommonEventIDs(ctx context.Context, identityA, identityB string) ([]uint, error)
	CreateToken(ctx context.Context, token domain.VirtualToken) (domain.VirtualToken, error)
	FindTokenByValue(ctx context.Context, value string) (domain.VirtualToken, error)
}

type RegistryService struct {
	repo ParticipantRepository
}

func NewRegistryService(repo ParticipantRepository) *RegistryService {
	return &RegistryService{
		repo: repo,
	}
}

// Register creates the participant row for (event, identity) if absent.
// Registering twice is a no-op returning the existing row; the
// participant type of the first registration wins.
func (s *RegistryService) Register(ctx context.Context, eventID uint, identity, participantType string) (domain.Participant, error) {
	participant, err := s.repo.Register(ctx, domain.Participant{
		EventID:         eventID,
		Identity:        identity,
		ParticipantType: participantType,
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Register -> %w", err)
	}

	return participant, nil
}

func (s *RegistryService) Lookup(ctx context.Context, eventID uint, identity string) (domain.Participant, error) {
	participant, err := s.repo.FindByEventAndIdentity(ctx, eventID, identity)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrNotRegistered
		}

		return domain.Participant{}, fmt.Errorf("s.repo.FindByEventAndIdentity -> %w", err)
	}

	return participant, nil
}

// IssueToken mints a fresh single-context virtual token bound to the
// owner identity.
func (s *RegistryService) IssueToken(ctx context.Context, tokenContext domain.TokenContext, eventID uint, propertyUnit, owner string) (domain.VirtualToken, error) {
	token, err := s.repo.CreateToken(ctx, domain.VirtualToken{
		Value:        uuid.NewString(),
		Context:      tokenContext,
		EventID:      eventID,
		PropertyUnit: propertyUnit,
		Owner:        owner,
	})
	if err != nil {
		return domain.VirtualToken{}, fmt.Errorf("s.repo.CreateToken -> %w", err)
	}

	return token, nil
}

// ResolveToken dereferences a token value to the full token record.
func (s *RegistryService) ResolveToken(ctx context.Context, value string) (domain.VirtualToken, error) {
	token, err := s.repo.FindTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return domain.VirtualToken{}, ErrInvalidToken
		}

		return domain.VirtualToken{}, fmt.Errorf("s.repo.FindTokenByValue -> %w", err)
	}

	return token, nil
}

// CommonEvents lists the events where both identities are registered.
func (s *RegistryService) CommonEvents(ctx context.Context, identityA, identityB string) ([]uint, error) {
	eventIDs, err := s.repo.FindCommonEventIDs(ctx, identityA, identityB)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCommonEventIDs -> %w", err)
	}

	return eventIDs, nil
}
