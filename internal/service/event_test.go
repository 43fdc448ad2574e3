package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manqala/community-events-api/internal/domain"
)

func TestCreateEvent_RejectsDuplicateItemRule(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.CreateEvent(context.Background(), domain.Event{
		Name:     "Summer Fair",
		StartsAt: time.Now(),
		EndsAt:   time.Now().Add(8 * time.Hour),
		ItemRules: []domain.ItemRule{
			{Item: "meal", ParticipantType: "resident", UserMax: 1, EventMax: 10},
			{Item: "meal", ParticipantType: "resident", UserMax: 2, EventMax: 20},
		},
		Admins: []string{adminIdentity},
	})
	require.ErrorIs(t, err, domain.ErrDuplicateItemRule)
	assert.Contains(t, err.Error(), "row 2")
}

func TestCreateEvent_RejectsDuplicateAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.CreateEvent(context.Background(), domain.Event{
		Name:     "Summer Fair",
		StartsAt: time.Now(),
		EndsAt:   time.Now().Add(8 * time.Hour),
		Admins:   []string{adminIdentity, adminIdentity},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateAdmin)
}

func TestGetEvent_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.GetEvent(context.Background(), 42)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestIsEventAdmin(t *testing.T) {
	f := newFixture(t, "root@example.com")
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	isAdmin, err := f.events.IsEventAdmin(ctx, event.ID, adminIdentity)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = f.events.IsEventAdmin(ctx, event.ID, "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// Super-admins administer every event.
	isAdmin, err = f.events.IsEventAdmin(ctx, event.ID, "root@example.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestGetAdministeredEvents(t *testing.T) {
	f := newFixture(t, "root@example.com")
	eventA := f.createEvent(t, nil, adminIdentity)
	f.createEvent(t, nil, "other@example.com")
	ctx := context.Background()

	events, err := f.events.GetAdministeredEvents(ctx, adminIdentity)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, eventA.ID, events[0].ID)

	events, err = f.events.GetAdministeredEvents(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = f.events.GetAdministeredEvents(ctx, "stranger@example.com")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestResolveRule_EmptyTypeIsLiteral(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, []domain.ItemRule{
		{Item: "tour", ParticipantType: "", UserMax: 1, EventMax: -1},
	}, adminIdentity)
	ctx := context.Background()

	rule, err := f.events.ResolveRule(ctx, event.ID, "tour", "")
	require.NoError(t, err)
	assert.Equal(t, 1, rule.UserMax)

	// The empty type is a regular value, not a wildcard.
	_, err = f.events.ResolveRule(ctx, event.ID, "tour", "resident")
	assert.ErrorIs(t, err, ErrItemNotAllowed)
}
