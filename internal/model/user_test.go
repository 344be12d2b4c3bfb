package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.True(t, RoleUser.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("root").Valid())

	require.True(t, RoleAdmin.Satisfies(RoleAdmin))
	require.True(t, RoleUser.Satisfies(RoleAdmin, RoleUser))
	require.False(t, RoleUser.Satisfies(RoleAdmin))
	require.False(t, RoleAdmin.Satisfies())
}

func TestNewUser(t *testing.T) {
	u := NewUser("Alice", "alice@example.com", "hash")
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", u.ID.String())
	require.Equal(t, RoleUser, u.Role)
	require.True(t, u.IsActive)
	require.Equal(t, "hash", u.PasswordHash)

	other := NewUser("Bob", "bob@example.com", "hash")
	require.NotEqual(t, u.ID, other.ID)
}
