package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manqala/community-events-api/internal/domain"
)

func TestRegister_IdempotentFirstTypeWins(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	first, err := f.registry.Register(ctx, event.ID, "alice@example.com", "resident")
	require.NoError(t, err)
	assert.Equal(t, "resident", first.ParticipantType)

	// Registering again returns the existing row unchanged.
	second, err := f.registry.Register(ctx, event.ID, "alice@example.com", "visitor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "resident", second.ParticipantType)
}

func TestLookup_NotRegistered(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)

	_, err := f.registry.Lookup(context.Background(), event.ID, "alice@example.com")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestIssueToken_MintsDistinctValues(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	first, err := f.registry.IssueToken(ctx, domain.TokenContextRegistration, event.ID, "unit-1", "alice@example.com")
	require.NoError(t, err)
	second, err := f.registry.IssueToken(ctx, domain.TokenContextShareContact, event.ID, "unit-1", "alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.Value, second.Value)
	assert.Equal(t, "alice@example.com", first.Owner)
	assert.Equal(t, domain.TokenContextShareContact, second.Context)
}

func TestResolveToken(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	issued, err := f.registry.IssueToken(ctx, domain.TokenContextRegistration, event.ID, "unit-1", "alice@example.com")
	require.NoError(t, err)

	resolved, err := f.registry.ResolveToken(ctx, issued.Value)
	require.NoError(t, err)
	assert.Equal(t, issued.Owner, resolved.Owner)
	assert.Equal(t, issued.EventID, resolved.EventID)

	_, err = f.registry.ResolveToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCommonEvents(t *testing.T) {
	f := newFixture(t)
	eventA := f.createEvent(t, nil, adminIdentity)
	eventB := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	f.enroll(t, eventA.ID, "alice@example.com", "resident")
	f.enroll(t, eventB.ID, "alice@example.com", "resident")
	f.enroll(t, eventB.ID, "bob@example.com", "visitor")

	shared, err := f.registry.CommonEvents(ctx, "alice@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []uint{eventB.ID}, shared)

	shared, err = f.registry.CommonEvents(ctx, "alice@example.com", "carol@example.com")
	require.NoError(t, err)
	assert.Empty(t, shared)
}
