package repository

import (
	"context"
	"fmt"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

var (
	ErrQuotaExceeded = dao.ErrQuotaExceeded
)

type GrantDAO interface {
	InsertChecked(ctx context.Context, grant dao.ItemGrant, participantType string, userMax, eventMax int) (dao.ItemGrant, error)
	CountByParticipant(ctx context.Context, eventID uint, item string, participantID uint) (int64, error)
}

type GrantRepository struct {
	dao GrantDAO
}

func NewGrantRepository(dao GrantDAO) *GrantRepository {
	return &GrantRepository{
		dao: dao,
	}
}

// AppendChecked records the grant with the quota checks enforced
// transactionally by the DAO.
func (r *GrantRepository) AppendChecked(ctx context.Context, grant domain.ItemGrant, rule domain.ItemRule) (domain.ItemGrant, error) {
	created, err := r.dao.InsertChecked(ctx, dao.ItemGrant{
		EventID:        grant.EventID,
		Item:           grant.Item,
		ParticipantID:  grant.ParticipantID,
		ReferenceToken: grant.ReferenceToken,
	}, rule.ParticipantType, rule.UserMax, rule.EventMax)
	if err != nil {
		return domain.ItemGrant{}, fmt.Errorf("r.dao.InsertChecked -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *GrantRepository) CountByParticipant(ctx context.Context, eventID uint, item string, participantID uint) (int64, error) {
	count, err := r.dao.CountByParticipant(ctx, eventID, item, participantID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByParticipant -> %w", err)
	}

	return count, nil
}

func (r *GrantRepository) daoToDomain(g dao.ItemGrant) domain.ItemGrant {
	return domain.ItemGrant{
		ID:             g.ID,
		EventID:        g.EventID,
		Item:           g.Item,
		ParticipantID:  g.ParticipantID,
		ReferenceToken: g.ReferenceToken,
		CreatedAt:      g.CreatedAt,
	}
}
