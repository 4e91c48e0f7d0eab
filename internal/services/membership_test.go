package services

import (
	"context"
	"testing"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/store"
	"communishare-be/internal/store/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := memstore.Open("")
	require.NoError(t, err)
	return st
}

func seedGroup(t *testing.T, st store.Store, group models.Group) {
	t.Helper()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
		group.UpdatedAt = group.CreatedAt
	}
	doc, err := store.Encode(group)
	require.NoError(t, err)
	require.NoError(t, st.SetDocument(context.Background(), store.CollectionGroups, group.ID, doc))
}

func testUser(name string) *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       name + "@example.com",
		DisplayName: name,
		Role:        models.RoleUser,
	}
}

func TestJoinCreatesThirtyDayWindow(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	joinedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return joinedAt }

	user := testUser("alice")
	member, err := svc.Join(context.Background(), "g1", user)
	require.NoError(t, err)

	assert.Equal(t, store.MemberDocID("g1", user.ID.String()), member.ID)
	assert.Equal(t, joinedAt, member.SubscriptionStartDate)
	assert.Equal(t, joinedAt.AddDate(0, 0, models.SubscriptionPeriodDays), member.SubscriptionEndDate)
	assert.True(t, member.IsActive)

	group, err := svc.Group(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, group.MemberCount)

	status := EvaluateSubscription(member, joinedAt)
	assert.True(t, status.IsActive)
	assert.Equal(t, models.SubscriptionPeriodDays, status.DaysUntilExpiry)
}

func TestJoinDuplicateReturnsExisting(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	user := testUser("alice")

	first, err := svc.Join(context.Background(), "g1", user)
	require.NoError(t, err)

	second, err := svc.Join(context.Background(), "g1", user)
	assert.ErrorIs(t, err, ErrDuplicateMembership)
	require.NotNil(t, second)
	assert.Equal(t, first.SubscriptionEndDate, second.SubscriptionEndDate, "duplicate join must not touch the window")

	group, err := svc.Group(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, group.MemberCount, "duplicate join must not bump the counter")
}

func TestJoinUnknownGroup(t *testing.T) {
	st := newTestStore(t)
	svc := NewMembershipService(st, zap.NewNop())

	_, err := svc.Join(context.Background(), "nope", testUser("alice"))
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestRenewStartsFreshFromNow(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	joinedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return joinedAt }

	user := testUser("alice")
	member, err := svc.Join(context.Background(), "g1", user)
	require.NoError(t, err)

	// Well past the grace period.
	renewedAt := member.SubscriptionEndDate.AddDate(0, 0, 10)
	svc.now = func() time.Time { return renewedAt }

	status := EvaluateSubscription(member, renewedAt)
	require.True(t, status.IsExpired)

	renewed, err := svc.Renew(context.Background(), "g1", user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, renewedAt.AddDate(0, 0, models.SubscriptionPeriodDays), renewed.SubscriptionEndDate,
		"renewal must start from now, not stack on the old end date")
	assert.True(t, renewed.IsActive)

	status = EvaluateSubscription(renewed, renewedAt)
	assert.True(t, status.IsActive)
	assert.False(t, status.IsExpired)

	// The stored record matches what Renew returned.
	stored, err := svc.Membership(context.Background(), "g1", user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, renewed.SubscriptionEndDate.Equal(stored.SubscriptionEndDate))
}

func TestRenewUnknownMembership(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	_, err := svc.Renew(context.Background(), "g1", uuid.New().String())
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestRemoveDeletesAndDecrements(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	user := testUser("alice")
	_, err := svc.Join(context.Background(), "g1", user)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "g1", user.ID.String()))

	member, err := svc.Membership(context.Background(), "g1", user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, member)

	group, err := svc.Group(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, group.MemberCount)

	// Removing again is a distinct, observable failure.
	err = svc.Remove(context.Background(), "g1", user.ID.String())
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	group, err = svc.Group(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, group.MemberCount, "counter never goes negative")
}

func TestMembershipAbsenceIsNotAnError(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	svc := NewMembershipService(st, zap.NewNop())
	member, err := svc.Membership(context.Background(), "g1", uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, member)

	status, err := svc.Status(context.Background(), "g1", uuid.New().String())
	require.NoError(t, err)
	assert.True(t, status.IsExpired)
	assert.False(t, status.IsActive)
}

func TestGroupMembersAndUserMemberships(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})
	seedGroup(t, st, models.Group{ID: "g2", Name: "Spotify Family"})

	svc := NewMembershipService(st, zap.NewNop())
	alice := testUser("alice")
	bob := testUser("bob")

	_, err := svc.Join(context.Background(), "g1", alice)
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), "g1", bob)
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), "g2", alice)
	require.NoError(t, err)

	members, err := svc.GroupMembers(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	mine, err := svc.UserMemberships(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
