package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps sqlite from returning busy errors in
	// the concurrency tests.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dao.InitTables(db))

	return db
}

type fixture struct {
	events       *EventService
	registry     *RegistryService
	distribution *DistributionService
	scoring      *ScoringService
	leaderboard  *LeaderboardService

	scores *repository.ScoreRepository
}

func newFixture(t *testing.T, superAdmins ...string) *fixture {
	t.Helper()

	db := newTestDB(t)

	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	grantRepo := repository.NewGrantRepository(dao.NewGrantDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))

	events := NewEventService(eventRepo, superAdmins)
	registry := NewRegistryService(participantRepo)

	return &fixture{
		events:       events,
		registry:     registry,
		distribution: NewDistributionService(events, registry, grantRepo),
		scoring:      NewScoringService(registry, scoreRepo),
		leaderboard:  NewLeaderboardService(scoreRepo),
		scores:       scoreRepo,
	}
}

func (f *fixture) createEvent(t *testing.T, rules []domain.ItemRule, admins ...string) domain.Event {
	t.Helper()

	event, err := f.events.CreateEvent(context.Background(), domain.Event{
		Name:      "Summer Fair",
		StartsAt:  time.Now(),
		EndsAt:    time.Now().Add(8 * time.Hour),
		ItemRules: rules,
		Admins:    admins,
	})
	require.NoError(t, err)

	return event
}

// enroll registers the identity and issues a registration token for it.
func (f *fixture) enroll(t *testing.T, eventID uint, identity, participantType string) domain.VirtualToken {
	t.Helper()

	_, err := f.registry.Register(context.Background(), eventID, identity, participantType)
	require.NoError(t, err)

	token, err := f.registry.IssueToken(context.Background(), domain.TokenContextRegistration, eventID, "unit-1", identity)
	require.NoError(t, err)

	return token
}
