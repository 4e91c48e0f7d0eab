package services

import (
	"testing"

	"communishare-be/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRoleForSignup(t *testing.T) {
	policy := NewRolePolicy([]string{"root@communishare.app", " Boss@Example.com "})

	assert.Equal(t, models.RoleSuperAdmin, policy.RoleForSignup("root@communishare.app"))
	assert.Equal(t, models.RoleSuperAdmin, policy.RoleForSignup("ROOT@communishare.app"), "match is case-insensitive")
	assert.Equal(t, models.RoleSuperAdmin, policy.RoleForSignup("boss@example.com"))
	assert.Equal(t, models.RoleUser, policy.RoleForSignup("alice@example.com"))
}

func TestRoleForSignupEmptyPolicy(t *testing.T) {
	policy := NewRolePolicy(nil)
	assert.Equal(t, models.RoleUser, policy.RoleForSignup("anyone@example.com"))
}
