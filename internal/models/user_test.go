package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserActive(t *testing.T) {
	assert.True(t, User{Status: UserStatusActive}.Active())
	assert.False(t, User{Status: UserStatusSuspended}.Active())
	assert.False(t, User{}.Active())
}
