package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository"
)

var (
	ErrEventNotFound  = repository.ErrEventNotFound
	ErrItemNotAllowed = errors.New("no item rule for this item and participant type")
	ErrNotEventAdmin  = errors.New("user is not an admin of this event")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetAll(ctx context.Context) ([]domain.Event, error)
	IsAdmin(ctx context.Context, eventID uint, identity string) (bool, error)
}

type EventService struct {
	repo EventRepository

	// superAdmins may administer every event; loaded from config.
	superAdmins map[string]struct{}
}

func NewEventService(repo EventRepository, superAdmins []string) *EventService {
	admins := make(map[string]struct{}, len(superAdmins))
	for _, identity := range superAdmins {
		admins[identity] = struct{}{}
	}

	return &EventService{
		repo:        repo,
		superAdmins: admins,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

// GetAdministeredEvents returns the events the identity may administer.
func (s *EventService) GetAdministeredEvents(ctx context.Context, identity string) ([]domain.Event, error) {
	events, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetAll -> %w", err)
	}

	if _, ok := s.superAdmins[identity]; ok {
		return events, nil
	}

	administered := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.IsAdmin(identity) {
			administered = append(administered, event)
		}
	}

	return administered, nil
}

// IsEventAdmin reports whether the identity is an admin of the event or
// one of the configured super-admins.
func (s *EventService) IsEventAdmin(ctx context.Context, eventID uint, identity string) (bool, error) {
	if _, ok := s.superAdmins[identity]; ok {
		return true, nil
	}

	isAdmin, err := s.repo.IsAdmin(ctx, eventID, identity)
	if err != nil {
		return false, fmt.Errorf("s.repo.IsAdmin -> %w", err)
	}

	return isAdmin, nil
}

// ResolveRule loads the event's rule for (item, participantType). Caps
// are read at the instant of each check; the catalog is treated as
// static while redemption is running.
func (s *EventService) ResolveRule(ctx context.Context, eventID uint, item, participantType string) (domain.ItemRule, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.ItemRule{}, err
	}

	rule, ok := event.ResolveRule(item, participantType)
	if !ok {
		return domain.ItemRule{}, ErrItemNotAllowed
	}

	return rule, nil
}
