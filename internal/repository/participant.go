package repository

import (
	"context"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrTokenNotFound       = dao.ErrTokenNotFound
)

type ParticipantDAO interface {
	Upsert(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	FindByEventAndIdentity(ctx context.Context, eventID uint, identity string) (dao.Participant, error)
	FindCommonEventIDs(ctx context.Context, identityA, identityB string) ([]uint, error)
	InsertToken(ctx context.Context, token dao.VirtualToken) (dao.VirtualToken, error)
	FindTokenByValue(ctx context.Context, value string) (dao.VirtualToken, error)
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) Register(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	registered, err := r.dao.Upsert(ctx, dao.Participant{
		EventID:         participant.EventID,
		Identity:        participant.Identity,
		ParticipantType: participant.ParticipantType,
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(registered), nil
}

func (r *ParticipantRepository) FindByEventAndIdentity(ctx context.Context, eventID uint, identity string) (domain.Participant, error) {
	found, err := r.dao.FindByEventAndIdentity(ctx, eventID, identity)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByEventAndIdentity -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ParticipantRepository) FindCommonEventIDs(ctx context.Context, identityA, identityB string) ([]uint, error) {
	eventIDs, err := r.dao.FindCommonEventIDs(ctx, identityA, identityB)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCommonEventIDs -> %w", err)
	}

	return eventIDs, nil
}

func (r *ParticipantRepository) CreateToken(ctx context.Context, token domain.VirtualToken) (domain.VirtualToken, error) {
	created, err := r.dao.InsertToken(ctx, dao.VirtualToken{
		Value:        token.Value,
		Context:      string(token.Context),
		EventID:      token.EventID,
		PropertyUnit: token.PropertyUnit,
		Owner:        token.Owner,
	})
	if err != nil {
		return domain.VirtualToken{}, fmt.Errorf("r.dao.InsertToken -> %w", err)
	}

	return r.tokenDaoToDomain(created), nil
}

func (r *ParticipantRepository) FindTokenByValue(ctx context.Context, value string) (domain.VirtualToken, error) {
	found, err := r.dao.FindTokenByValue(ctx, value)
	if err != nil {
		return domain.VirtualToken{}, fmt.Errorf("r.dao.FindTokenByValue -> %w", err)
	}

	return r.tokenDaoToDomain(found), nil
}

func (r *ParticipantRepository) daoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:              p.ID,
		EventID:         p.EventID,
		Identity:        p.Identity,
		ParticipantType: p.ParticipantType,
		CreatedAt:       p.CreatedAt,
	}
}

func (r *ParticipantRepository) tokenDaoToDomain(t dao.VirtualToken) domain.VirtualToken {
	return domain.VirtualToken{
		ID:           t.ID,
		Value:        t.Value,
		Context:      domain.TokenContext(t.Context),
		EventID:      t.EventID,
		PropertyUnit: t.PropertyUnit,
		Owner:        t.Owner,
		CreatedAt:    t.CreatedAt,
	}
}
