// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	user := User{Permissions: []string{PermSetPublished}}

	assert.True(t, user.HasPermission(PermSetPublished))
	assert.False(t, user.HasPermission(PermChangeListing))

	superuser := User{IsSuperuser: true}
	assert.True(t, superuser.HasPermission(PermChangeListing))
	assert.True(t, superuser.HasPermission(PermDeleteCategory))
}

func TestPasswordHashing(t *testing.T) {
	user := User{}
	require.NoError(t, user.SetPassword("password1"))

	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("password1"))
	assert.Error(t, user.CheckPassword("wrong"))
}
