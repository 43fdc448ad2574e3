package repository

import (
	"context"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	IsAdmin(ctx context.Context, eventID uint, identity string) (bool, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) GetAll(ctx context.Context) ([]domain.Event, error) {
	eventsDAO, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(eventsDAO))
	for i, eventDAO := range eventsDAO {
		events[i] = r.daoToDomain(eventDAO)
	}

	return events, nil
}

func (r *EventRepository) IsAdmin(ctx context.Context, eventID uint, identity string) (bool, error) {
	isAdmin, err := r.dao.IsAdmin(ctx, eventID, identity)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsAdmin -> %w", err)
	}

	return isAdmin, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	rules := make([]dao.ItemRule, len(e.ItemRules))
	for i, rule := range e.ItemRules {
		rules[i] = dao.ItemRule{
			Item:            rule.Item,
			ParticipantType: rule.ParticipantType,
			UserMax:         rule.UserMax,
			EventMax:        rule.EventMax,
		}
	}

	admins := make([]dao.EventAdmin, len(e.Admins))
	for i, identity := range e.Admins {
		admins[i] = dao.EventAdmin{Identity: identity}
	}

	return dao.Event{
		ID:        e.ID,
		Name:      e.Name,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		ItemRules: rules,
		Admins:    admins,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	rules := make([]domain.ItemRule, len(e.ItemRules))
	for i, rule := range e.ItemRules {
		rules[i] = domain.ItemRule{
			ID:              rule.ID,
			Item:            rule.Item,
			ParticipantType: rule.ParticipantType,
			UserMax:         rule.UserMax,
			EventMax:        rule.EventMax,
		}
	}

	admins := make([]string, len(e.Admins))
	for i, admin := range e.Admins {
		admins[i] = admin.Identity
	}

	return domain.Event{
		ID:        e.ID,
		Name:      e.Name,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		ItemRules: rules,
		Admins:    admins,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
