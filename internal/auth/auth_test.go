package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmate-labs/debate-live-backend/internal/store"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundtrip(t *testing.T) {
	svc := NewService("secret")
	u := &store.User{ID: "u-1", Email: "t@example.com", UserType: RoleTeacher}

	token, err := svc.IssueToken(u)
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, "t@example.com", id.Email)
	assert.Equal(t, RoleTeacher, id.Role)
}

func TestVerify_RejectsForeignSecret(t *testing.T) {
	token, err := NewService("one").IssueToken(&store.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewService("two").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := NewService("secret").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
