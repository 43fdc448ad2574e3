package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrTokenNotFound       = errors.New("virtual token not found")
)

type Participant struct {
	ID              uint   `gorm:"primaryKey"`
	EventID         uint   `gorm:"not null;uniqueIndex:idx_participants_event_identity"`
	Identity        string `gorm:"not null;uniqueIndex:idx_participants_event_identity"`
	ParticipantType string

	CreatedAt time.Time
}

type VirtualToken struct {
	ID           uint   `gorm:"primaryKey"`
	Value        string `gorm:"not null;uniqueIndex"`
	Context      string `gorm:"not null"`
	EventID      uint   `gorm:"not null;index"`
	PropertyUnit string
	Owner        string `gorm:"not null;index"`

	CreatedAt time.Time
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

// Upsert inserts the participant unless (event, identity) already
// exists, then returns the surviving row. Duplicate registration is a
// no-op by contract, never an error.
func (d *ParticipantDAO) Upsert(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "identity"}},
			DoNothing: true,
		}).
		Create(&participant)
	if result.Error != nil {
		return Participant{}, result.Error
	}

	return d.FindByEventAndIdentity(ctx, participant.EventID, participant.Identity)
}

func (d *ParticipantDAO) FindByEventAndIdentity(ctx context.Context, eventID uint, identity string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		First(&participant, "event_id = ? AND identity = ?", eventID, identity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// FindCommonEventIDs returns the events in which both identities are
// registered participants, lowest event ID first.
func (d *ParticipantDAO) FindCommonEventIDs(ctx context.Context, identityA, identityB string) ([]uint, error) {
	var eventIDs []uint

	result := d.db.WithContext(ctx).
		Model(&Participant{}).
		Select("participants.event_id").
		Joins("JOIN participants AS counterparts ON counterparts.event_id = participants.event_id").
		Where("participants.identity = ? AND counterparts.identity = ?", identityA, identityB).
		Order("participants.event_id").
		Pluck("participants.event_id", &eventIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return eventIDs, nil
}

func (d *ParticipantDAO) InsertToken(ctx context.Context, token VirtualToken) (VirtualToken, error) {
	result := d.db.WithContext(ctx).Create(&token)
	if result.Error != nil {
		return VirtualToken{}, result.Error
	}

	return token, nil
}

func (d *ParticipantDAO) FindTokenByValue(ctx context.Context, value string) (VirtualToken, error) {
	var token VirtualToken

	result := d.db.WithContext(ctx).First(&token, "value = ?", value)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return VirtualToken{}, ErrTokenNotFound
		}

		return VirtualToken{}, result.Error
	}

	return token, nil
}
