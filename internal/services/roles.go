package services

import (
	"strings"

	"communishare-be/internal/models"
)

// RolePolicy decides the role stored on a new account. It runs exactly once,
// at account creation; the stored role is never re-derived from the email
// afterwards.
type RolePolicy struct {
	superAdmins map[string]struct{}
}

func NewRolePolicy(superAdminEmails []string) *RolePolicy {
	p := &RolePolicy{superAdmins: make(map[string]struct{}, len(superAdminEmails))}
	for _, email := range superAdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			p.superAdmins[email] = struct{}{}
		}
	}
	return p
}

// RoleForSignup assigns super_admin to configured emails, user to everyone
// else. group_admin is granted later, when a user first creates a group.
func (p *RolePolicy) RoleForSignup(email string) string {
	if _, ok := p.superAdmins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return models.RoleSuperAdmin
	}
	return models.RoleUser
}
