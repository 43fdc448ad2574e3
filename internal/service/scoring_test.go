package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manqala/community-events-api/internal/domain"
)

func TestScoreInteraction_ScoresOncePerOrderedPair(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	aliceToken := f.enroll(t, event.ID, "alice@example.com", "resident")
	bobToken := f.enroll(t, event.ID, "bob@example.com", "resident")

	entry, err := f.scoring.ScoreInteraction(ctx, aliceToken.Value, bobToken.Value)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "alice@example.com", entry.Participant)
	assert.Equal(t, 1, entry.Score)
	assert.Equal(t, event.ID, entry.EventID)

	// The same ordered exchange is a duplicate.
	entry, err = f.scoring.ScoreInteraction(ctx, aliceToken.Value, bobToken.Value)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// The reversed exchange is a distinct interaction.
	entry, err = f.scoring.ScoreInteraction(ctx, bobToken.Value, aliceToken.Value)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "bob@example.com", entry.Participant)
}

func TestScoreInteraction_NoSharedEventIsANoOp(t *testing.T) {
	f := newFixture(t)
	eventA := f.createEvent(t, nil, adminIdentity)
	eventB := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	aliceToken := f.enroll(t, eventA.ID, "alice@example.com", "resident")
	bobToken := f.enroll(t, eventB.ID, "bob@example.com", "resident")

	entry, err := f.scoring.ScoreInteraction(ctx, aliceToken.Value, bobToken.Value)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestScoreInteraction_PrefersPrimaryTokensEvent(t *testing.T) {
	f := newFixture(t)
	eventA := f.createEvent(t, nil, adminIdentity)
	eventB := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	// Both identities attend both events; the primary token was issued
	// for the second one.
	f.enroll(t, eventA.ID, "alice@example.com", "resident")
	aliceTokenB := f.enroll(t, eventB.ID, "alice@example.com", "resident")
	bobTokenA := f.enroll(t, eventA.ID, "bob@example.com", "resident")
	f.enroll(t, eventB.ID, "bob@example.com", "resident")

	entry, err := f.scoring.ScoreInteraction(ctx, aliceTokenB.Value, bobTokenA.Value)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, eventB.ID, entry.EventID)
}

func TestScoreInteraction_UnknownToken(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)

	aliceToken := f.enroll(t, event.ID, "alice@example.com", "resident")

	_, err := f.scoring.ScoreInteraction(context.Background(), aliceToken.Value, "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestScoreInteraction_WorksWithShareContactTokens(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t, nil, adminIdentity)
	ctx := context.Background()

	f.enroll(t, event.ID, "alice@example.com", "resident")
	f.enroll(t, event.ID, "bob@example.com", "resident")

	aliceShare, err := f.registry.IssueToken(ctx, domain.TokenContextShareContact, event.ID, "unit-7", "alice@example.com")
	require.NoError(t, err)
	bobShare, err := f.registry.IssueToken(ctx, domain.TokenContextShareContact, event.ID, "unit-9", "bob@example.com")
	require.NoError(t, err)

	entry, err := f.scoring.ScoreInteraction(ctx, aliceShare.Value, bobShare.Value)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "alice@example.com", entry.Participant)
}
