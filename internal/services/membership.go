package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/store"

	"go.uber.org/zap"
)

// MembershipService owns every state change to membership records and the
// group member counters derived from them.
type MembershipService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewMembershipService(st store.Store, logger *zap.Logger) *MembershipService {
	return &MembershipService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Join creates a membership with a fresh subscription window and bumps the
// group's memberCount. If the user is already a member the existing record
// is returned together with ErrDuplicateMembership.
func (s *MembershipService) Join(ctx context.Context, groupID string, user *models.User) (*models.GroupMember, error) {
	group, err := s.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberID := store.MemberDocID(groupID, user.ID.String())
	if existing, err := s.memberByDocID(ctx, memberID); err == nil {
		return existing, ErrDuplicateMembership
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	member := &models.GroupMember{
		ID:                    memberID,
		GroupID:               groupID,
		UserID:                user.ID.String(),
		UserEmail:             user.Email,
		UserName:              user.DisplayName,
		SubscriptionStartDate: now,
		SubscriptionEndDate:   now.AddDate(0, 0, models.SubscriptionPeriodDays),
		IsActive:              true,
		JoinedAt:              now,
	}

	doc, err := store.Encode(member)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDocument(ctx, store.CollectionMembers, memberID, doc); err != nil {
		return nil, err
	}

	// The membership write and the counter bump are one logical unit, but
	// the store gives no cross-document transaction. A lost increment is a
	// tolerated drift that the reconciler repairs from the membership set.
	if err := s.store.IncrementField(ctx, store.CollectionGroups, groupID, "memberCount", 1); err != nil {
		s.logger.Warn("member count increment failed, reconciler will repair",
			zap.String("group_id", groupID), zap.Error(err))
	}

	s.logger.Info("member joined group",
		zap.String("group_id", groupID),
		zap.String("group_name", group.Name),
		zap.String("user_id", user.ID.String()))
	return member, nil
}

// Renew extends the subscription window from now, never from the previous
// end date, so a renewal during grace does not compound unused days. It also
// clears the kill-switch.
func (s *MembershipService) Renew(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	memberID := store.MemberDocID(groupID, userID)
	member, err := s.memberByDocID(ctx, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	newEnd := s.now().UTC().AddDate(0, 0, models.SubscriptionPeriodDays)
	err = s.store.UpdateDocument(ctx, store.CollectionMembers, memberID, store.Document{
		"subscriptionEndDate": newEnd.Format(time.RFC3339Nano),
		"isActive":            true,
	})
	if err != nil {
		return nil, err
	}

	member.SubscriptionEndDate = newEnd
	member.IsActive = true

	s.logger.Info("subscription renewed",
		zap.String("group_id", groupID),
		zap.String("user_id", userID),
		zap.Time("new_end", newEnd))
	return member, nil
}

// Remove deletes the membership and decrements memberCount, floored at 0 so
// double-removal races can never drive the counter negative.
func (s *MembershipService) Remove(ctx context.Context, groupID, userID string) error {
	memberID := store.MemberDocID(groupID, userID)
	err := s.store.DeleteDocument(ctx, store.CollectionMembers, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMembershipNotFound
	}
	if err != nil {
		return err
	}

	if err := s.store.IncrementField(ctx, store.CollectionGroups, groupID, "memberCount", -1); err != nil {
		s.logger.Warn("member count decrement failed, reconciler will repair",
			zap.String("group_id", groupID), zap.Error(err))
	}

	s.logger.Info("member removed from group",
		zap.String("group_id", groupID),
		zap.String("user_id", userID))
	return nil
}

// Membership returns the record for (groupID, userID), or nil when the user
// has never joined; absence is a valid state, not an error.
func (s *MembershipService) Membership(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := s.memberByDocID(ctx, store.MemberDocID(groupID, userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Status evaluates the subscription state for (groupID, userID) right now.
func (s *MembershipService) Status(ctx context.Context, groupID, userID string) (models.SubscriptionStatus, error) {
	member, err := s.Membership(ctx, groupID, userID)
	if err != nil {
		return models.SubscriptionStatus{}, err
	}
	return EvaluateSubscription(member, s.now()), nil
}

func (s *MembershipService) GroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	docs, err := s.store.Query(ctx, store.CollectionMembers, "groupId", groupID)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.GroupMember](docs)
}

func (s *MembershipService) UserMemberships(ctx context.Context, userID string) ([]models.GroupMember, error) {
	docs, err := s.store.Query(ctx, store.CollectionMembers, "userId", userID)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.GroupMember](docs)
}

// Group loads a group record, mapping storage absence to ErrGroupNotFound.
func (s *MembershipService) Group(ctx context.Context, groupID string) (*models.Group, error) {
	doc, err := s.store.GetDocument(ctx, store.CollectionGroups, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	var group models.Group
	if err := store.Decode(doc, &group); err != nil {
		return nil, fmt.Errorf("decode group %s: %w", groupID, err)
	}
	return &group, nil
}

func (s *MembershipService) memberByDocID(ctx context.Context, memberID string) (*models.GroupMember, error) {
	doc, err := s.store.GetDocument(ctx, store.CollectionMembers, memberID)
	if err != nil {
		return nil, err
	}
	var member models.GroupMember
	if err := store.Decode(doc, &member); err != nil {
		return nil, fmt.Errorf("decode member %s: %w", memberID, err)
	}
	return &member, nil
}
