package services

import "errors"

var (
	// ErrDuplicateMembership is returned by Join when a membership already
	// exists for the (group, user) pair. Callers should treat it as
	// idempotent success and surface the existing membership.
	ErrDuplicateMembership = errors.New("user is already a member of this group")

	ErrMembershipNotFound = errors.New("membership not found")
	ErrGroupNotFound      = errors.New("group not found")

	// ErrAccessDenied is returned when the access gate rejects a premium
	// group operation for a non-active subscription.
	ErrAccessDenied = errors.New("subscription required for this group")
)
