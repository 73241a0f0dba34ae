package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetDebate_WithRelated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	d := &Debate{Name: "Homework", Sides: []string{"For", "Against"}}
	require.NoError(t, m.CreateDebate(ctx, d))

	require.NoError(t, m.CreateParticipant(ctx, &Participant{DebateID: d.ID, UserName: "ana1", Side: "For"}))
	require.NoError(t, m.CreateContribution(ctx, &Contribution{DebateID: d.ID, Side: "For", Content: "hi"}))
	require.NoError(t, m.CreateRaiseHand(ctx, &RaiseHand{DebateID: d.ID, AuthorID: "u1"}))

	bare, err := m.GetDebate(ctx, d.ID, false)
	require.NoError(t, err)
	assert.Empty(t, bare.Contributions)

	full, err := m.GetDebate(ctx, d.ID, true)
	require.NoError(t, err)
	assert.Len(t, full.Contributions, 1)
	assert.Len(t, full.Participants, 1)
	assert.Len(t, full.RaiseHands, 1)
}

func TestMemory_GetReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetDebate(ctx, "x", false)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetContribution(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetRaiseHand(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteRaiseHand(ctx, "x"), ErrNotFound)
}

func TestMemory_FindReturnsNilWhenAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.FindUserByEmail(ctx, "none@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	r, err := m.FindRaiseHandByAuthor(ctx, "d1", "u1")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestMemory_CopiesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	c := &Contribution{DebateID: "d1", Content: "hi", Awards: []string{"a"}}
	require.NoError(t, m.CreateContribution(ctx, c))

	got, err := m.GetContribution(ctx, c.ID)
	require.NoError(t, err)
	got.Awards[0] = "mutated"

	again, err := m.GetContribution(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Awards[0])
}

func TestMemory_DeleteDebate_CascadesDependents(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	d := &Debate{Name: "Homework", Sides: []string{"For", "Against"}}
	require.NoError(t, m.CreateDebate(ctx, d))
	c := &Contribution{DebateID: d.ID, Content: "hi"}
	require.NoError(t, m.CreateContribution(ctx, c))
	r := &RaiseHand{DebateID: d.ID, AuthorID: "u1"}
	require.NoError(t, m.CreateRaiseHand(ctx, r))

	require.NoError(t, m.DeleteDebate(ctx, d.ID))

	_, err := m.GetContribution(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetRaiseHand(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteDebate(ctx, d.ID), ErrNotFound)
}
