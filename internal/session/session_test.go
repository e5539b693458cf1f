package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"conferent/internal/session"
	"conferent/shared/constant"
)

func TestUserRoles(t *testing.T) {
	assert.True(t, session.User{Role: constant.RoleAdmin}.IsAdmin())
	assert.False(t, session.User{Role: constant.RoleUser}.IsAdmin())

	assert.True(t, session.User{Role: constant.RoleUser}.IsUser())
	assert.False(t, session.User{Role: constant.RoleAdmin}.IsUser())
	assert.False(t, session.User{}.IsUser())
}
