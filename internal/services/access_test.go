package services

import (
	"testing"

	"communishare-be/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAccessFreeGroupBypassesSubscription(t *testing.T) {
	free := &models.Group{ID: "g1", Name: "Udemy Courses", IsPremium: false}

	// Even a fully expired status gets in.
	expired := models.SubscriptionStatus{IsExpired: true}
	assert.True(t, CanAccess(free, expired))
	assert.True(t, CanAccess(free, models.SubscriptionStatus{}))
}

func TestCanAccessPremiumGroupRequiresActive(t *testing.T) {
	premium := &models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true}

	assert.True(t, CanAccess(premium, models.SubscriptionStatus{IsActive: true}))
	assert.False(t, CanAccess(premium, models.SubscriptionStatus{IsActive: false}))
	assert.False(t, CanAccess(premium, models.SubscriptionStatus{IsExpired: true}))
	// Grace period with the persisted flag on still counts as active.
	assert.True(t, CanAccess(premium, models.SubscriptionStatus{IsActive: true, IsInGracePeriod: true}))
}

func TestCanAdminister(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleGroupAdmin}
	other := &models.User{ID: uuid.New(), Role: models.RoleGroupAdmin}
	super := &models.User{ID: uuid.New(), Role: models.RoleSuperAdmin}

	group := &models.Group{ID: "g1", AdminID: admin.ID.String()}

	assert.True(t, CanAdminister(group, admin))
	assert.False(t, CanAdminister(group, other), "admin of some other group has no power here")
	assert.True(t, CanAdminister(group, super), "super admins administer every group")
}
