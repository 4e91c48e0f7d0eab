package services

import (
	"testing"
	"time"

	"communishare-be/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membershipEnding(end time.Time) *models.GroupMember {
	return &models.GroupMember{
		ID:                    "g1/u1",
		GroupID:               "g1",
		UserID:                "u1",
		SubscriptionStartDate: end.AddDate(0, 0, -models.SubscriptionPeriodDays),
		SubscriptionEndDate:   end,
		IsActive:              true,
	}
}

func TestEvaluateSubscriptionMidWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := EvaluateSubscription(membershipEnding(now.AddDate(0, 0, 10)), now)

	assert.True(t, status.IsActive)
	assert.False(t, status.IsExpiringSoon)
	assert.False(t, status.IsInGracePeriod)
	assert.False(t, status.IsExpired)
	assert.Equal(t, 10, status.DaysUntilExpiry)
}

func TestEvaluateSubscriptionExpiringSoon(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := EvaluateSubscription(membershipEnding(now.AddDate(0, 0, 2)), now)

	assert.True(t, status.IsActive)
	assert.True(t, status.IsExpiringSoon)
	assert.False(t, status.IsInGracePeriod)
	assert.False(t, status.IsExpired)
	assert.Equal(t, 2, status.DaysUntilExpiry)
}

func TestEvaluateSubscriptionAtEndBoundary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := EvaluateSubscription(membershipEnding(now), now)

	// The end instant itself already belongs to the grace period.
	assert.True(t, status.IsInGracePeriod)
	assert.False(t, status.IsExpired)
	assert.True(t, status.IsActive)
	assert.Equal(t, 0, status.DaysUntilExpiry)
	assert.False(t, status.IsExpiringSoon)
}

func TestEvaluateSubscriptionInGracePeriod(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := EvaluateSubscription(membershipEnding(now.AddDate(0, 0, -1)), now)

	assert.True(t, status.IsInGracePeriod)
	assert.False(t, status.IsExpired)
	assert.True(t, status.IsActive)
	assert.Equal(t, -1, status.DaysUntilExpiry)
}

func TestEvaluateSubscriptionAtGraceBoundary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, -models.GracePeriodDays)
	status := EvaluateSubscription(membershipEnding(end), now)

	// graceEnd itself is already expired.
	assert.False(t, status.IsInGracePeriod)
	assert.True(t, status.IsExpired)
	assert.False(t, status.IsActive)
}

func TestEvaluateSubscriptionExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := EvaluateSubscription(membershipEnding(now.AddDate(0, 0, -3)), now)

	assert.True(t, status.IsExpired)
	assert.False(t, status.IsActive)
	assert.False(t, status.IsInGracePeriod)
	assert.Equal(t, -3, status.DaysUntilExpiry)
}

func TestEvaluateSubscriptionNilMembership(t *testing.T) {
	status := EvaluateSubscription(nil, time.Now())

	assert.False(t, status.IsActive)
	assert.True(t, status.IsExpired)
	assert.False(t, status.IsInGracePeriod)
	assert.False(t, status.IsExpiringSoon)
	assert.Equal(t, 0, status.DaysUntilExpiry)
	assert.Nil(t, status.SubscriptionEndDate)
}

func TestEvaluateSubscriptionKillSwitch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	member := membershipEnding(now.AddDate(0, 0, 10))
	member.IsActive = false

	status := EvaluateSubscription(member, now)
	assert.False(t, status.IsActive, "persisted flag off must win over a valid time window")
	assert.False(t, status.IsExpired)
}

func TestEvaluateSubscriptionPure(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	member := membershipEnding(now.AddDate(0, 0, 5))

	first := EvaluateSubscription(member, now)
	second := EvaluateSubscription(member, now)
	require.Equal(t, first, second)
}

func TestEvaluateSubscriptionFractionalDays(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// 36 hours out floors to 1 day.
	status := EvaluateSubscription(membershipEnding(now.Add(36*time.Hour)), now)
	assert.Equal(t, 1, status.DaysUntilExpiry)
	assert.True(t, status.IsExpiringSoon)

	// 12 hours past the end floors to -1.
	status = EvaluateSubscription(membershipEnding(now.Add(-12*time.Hour)), now)
	assert.Equal(t, -1, status.DaysUntilExpiry)
	assert.True(t, status.IsInGracePeriod)
}
