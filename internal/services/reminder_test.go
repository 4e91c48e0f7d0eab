package services

import (
	"context"
	"testing"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureEmailProvider struct {
	reminders []service.ReminderEmailData
}

func (p *captureEmailProvider) SendRenewalReminder(ctx context.Context, data service.ReminderEmailData) error {
	p.reminders = append(p.reminders, data)
	return nil
}

func (p *captureEmailProvider) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return nil
}

func TestReminderSendsForExpiringSoonAndGrace(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	members := NewMembershipService(st, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	joinClock := now.AddDate(0, 0, -28) // ends in 2 days: expiring soon
	members.now = func() time.Time { return joinClock }
	_, err := members.Join(context.Background(), "g1", testUser("alice"))
	require.NoError(t, err)

	joinClock = now.AddDate(0, 0, -31) // ended 1 day ago: in grace
	_, err = members.Join(context.Background(), "g1", testUser("bob"))
	require.NoError(t, err)

	joinClock = now.AddDate(0, 0, -10) // 20 days left: nothing to say
	_, err = members.Join(context.Background(), "g1", testUser("carol"))
	require.NoError(t, err)

	provider := &captureEmailProvider{}
	r := NewReminder(st, provider, zap.NewNop(), time.Hour)
	r.now = func() time.Time { return now }

	sent, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, provider.reminders, 2)
	for _, data := range provider.reminders {
		assert.Equal(t, "Netflix Premium", data.GroupName)
	}
}

func TestReminderDedupesWithinADay(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	members := NewMembershipService(st, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	members.now = func() time.Time { return now.AddDate(0, 0, -28) }
	_, err := members.Join(context.Background(), "g1", testUser("alice"))
	require.NoError(t, err)

	provider := &captureEmailProvider{}
	r := NewReminder(st, provider, zap.NewNop(), time.Hour)
	r.now = func() time.Time { return now }

	sent, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Another pass an hour later stays silent.
	r.now = func() time.Time { return now.Add(time.Hour) }
	sent, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, provider.reminders, 1)

	// Past the dedupe horizon the member still has 1 day left, so a fresh
	// reminder goes out.
	r.now = func() time.Time { return now.Add(25 * time.Hour) }
	sent, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, provider.reminders, 2)
}

func TestReminderEvictsStaleDedupeEntries(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	provider := &captureEmailProvider{}
	r := NewReminder(st, provider, zap.NewNop(), time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	// Entries for memberships that renewed or left must not linger forever.
	r.lastSent["g1/gone"] = now.Add(-25 * time.Hour)
	r.lastSent["g1/recent"] = now.Add(-time.Hour)

	_, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, r.lastSent, "g1/gone")
	assert.Contains(t, r.lastSent, "g1/recent")
}
