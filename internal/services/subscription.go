package services

import (
	"math"
	"time"

	"communishare-be/internal/models"
)

// EvaluateSubscription computes the access state for a membership record at
// a point in time. It is pure: no I/O, no clock reads, same output for the
// same inputs.
//
// Boundary convention: the grace period is the half-open interval
// [end, graceEnd) and expired is [graceEnd, inf), applied uniformly at every
// call site.
func EvaluateSubscription(membership *models.GroupMember, now time.Time) models.SubscriptionStatus {
	if membership == nil {
		// Absence of a membership is a fully expired, non-active state,
		// never an error.
		return models.SubscriptionStatus{
			IsExpired:       true,
			DaysUntilExpiry: 0,
		}
	}

	end := membership.SubscriptionEndDate
	graceEnd := end.AddDate(0, 0, models.GracePeriodDays)
	daysUntilExpiry := int(math.Floor(end.Sub(now).Hours() / 24))

	isExpired := !now.Before(graceEnd)
	isInGracePeriod := !now.Before(end) && now.Before(graceEnd)
	isExpiringSoon := daysUntilExpiry > 0 && daysUntilExpiry <= models.ExpiringSoonWindowDays

	// The persisted flag is an independent kill-switch: time-based state can
	// never force a membership active once the flag is off.
	isActive := !isExpired && membership.IsActive

	return models.SubscriptionStatus{
		IsActive:            isActive,
		IsExpiringSoon:      isExpiringSoon,
		IsInGracePeriod:     isInGracePeriod,
		IsExpired:           isExpired,
		DaysUntilExpiry:     daysUntilExpiry,
		SubscriptionEndDate: &end,
	}
}
