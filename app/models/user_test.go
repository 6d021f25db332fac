package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("Jordan", "Reyes", "jordan.reyes@gogpac.com", "s3cret-pass", ROLE_RECRUITER)
	require.NoError(t, err)

	assert.Equal(t, "Jordan Reyes", u.FullName())
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.IsActive())
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("J", "Reyes", "jordan.reyes@gogpac.com", "s3cret-pass", ROLE_RECRUITER)
	assert.Error(t, err)

	_, err = CreateUser("Jordan", "Reyes", "not-an-email", "s3cret-pass", ROLE_RECRUITER)
	assert.Error(t, err)

	_, err = CreateUser("Jordan", "Reyes", "jordan.reyes@gogpac.com", "s3cret-pass", "superuser")
	assert.Error(t, err)
}

func TestGenerateAPIKey(t *testing.T) {
	u := &User{FirstName: "Jordan", LastName: "Reyes"}

	key, err := u.GenerateAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)

	// A second key replaces the first hash.
	key2, err := u.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	assert.Equal(t, HashAPIKey(key2), u.APIKeyHash)
}

func TestUserSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("new-password"))
	assert.True(t, u.CheckPassword("new-password"))
}
