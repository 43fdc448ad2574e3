package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

type Event struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"not null"`
	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`

	ItemRules []ItemRule   `gorm:"foreignKey:EventID"`
	Admins    []EventAdmin `gorm:"foreignKey:EventID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemRule struct {
	ID              uint   `gorm:"primaryKey"`
	EventID         uint   `gorm:"not null;uniqueIndex:idx_item_rules_event_item_type"`
	Item            string `gorm:"not null;uniqueIndex:idx_item_rules_event_item_type"`
	ParticipantType string `gorm:"uniqueIndex:idx_item_rules_event_item_type"`
	UserMax         int    `gorm:"not null"`
	EventMax        int    `gorm:"not null"`
}

type EventAdmin struct {
	ID       uint   `gorm:"primaryKey"`
	EventID  uint   `gorm:"not null;uniqueIndex:idx_event_admins_event_identity"`
	Identity string `gorm:"not null;uniqueIndex:idx_event_admins_event_identity"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// Insert stores the event together with its rule and admin child rows.
func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("ItemRules").
		Preload("Admins").
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("ItemRules").
		Preload("Admins").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) IsAdmin(ctx context.Context, eventID uint, identity string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&EventAdmin{}).
		Where("event_id = ? AND identity = ?", eventID, identity).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
