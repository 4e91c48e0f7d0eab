package services

import "communishare-be/internal/models"

// CanAccess is the single content/chat access gate: free groups bypass
// subscription checks entirely, premium groups require an active
// subscription. Chat send permission reuses this exact rule; there is no
// finer-grained permission.
func CanAccess(group *models.Group, status models.SubscriptionStatus) bool {
	return !group.IsPremium || status.IsActive
}

// CanAdminister reports whether the user may manage a group and its members.
func CanAdminister(group *models.Group, user *models.User) bool {
	return group.AdminID == user.ID.String() || user.Role == models.RoleSuperAdmin
}
