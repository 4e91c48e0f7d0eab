package models

import "time"

// Subscription policy constants. A paid membership runs for a fixed period;
// after the end date there is a short grace window before access is cut off,
// and a warning window shortly before the end date.
const (
	SubscriptionPeriodDays = 30
	GracePeriodDays        = 2
	ExpiringSoonWindowDays = 3
)

// SubscriptionStatus is derived from a membership record and a point in time.
// It is never persisted; it is recomputed on every access check.
type SubscriptionStatus struct {
	IsActive            bool       `json:"is_active"`
	IsExpiringSoon      bool       `json:"is_expiring_soon"`
	IsInGracePeriod     bool       `json:"is_in_grace_period"`
	IsExpired           bool       `json:"is_expired"`
	DaysUntilExpiry     int        `json:"days_until_expiry"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
}
