package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"communishare-be/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendMessageFreeGroupAllowsNonMembers(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Udemy Courses", IsPremium: false})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())

	msg, err := svc.Send(context.Background(), "g1", testUser("alice"), "hello everyone")
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, msg.Type)
	assert.Equal(t, "hello everyone", msg.Content)
}

func TestSendMessagePremiumGroupGated(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())

	// Non-member is rejected.
	_, err := svc.Send(context.Background(), "g1", testUser("stranger"), "let me in")
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Active member gets through.
	alice := testUser("alice")
	_, err = members.Join(context.Background(), "g1", alice)
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), "g1", alice, "made it")
	require.NoError(t, err)
}

func TestSendMessageExpiredMemberRejected(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	members := NewMembershipService(st, zap.NewNop())
	joinedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	members.now = func() time.Time { return joinedAt }

	alice := testUser("alice")
	_, err := members.Join(context.Background(), "g1", alice)
	require.NoError(t, err)

	svc := NewMessageService(st, members, zap.NewNop())
	// Far past the grace period.
	svc.now = func() time.Time { return joinedAt.AddDate(0, 0, 60) }

	_, err = svc.Send(context.Background(), "g1", alice, "still here?")
	assert.ErrorIs(t, err, ErrAccessDenied, "the gate is re-checked on every send")
}

func TestSendMessageDetectsLinks(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Udemy Courses", IsPremium: false})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())

	msg, err := svc.Send(context.Background(), "g1", testUser("alice"), "check https://example.com/course out")
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeLink, msg.Type)
}

func TestListMessagesOrderedAndLimited(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Udemy Courses", IsPremium: false})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	alice := testUser("alice")
	for i := 0; i < 5; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return tick }
		_, err := svc.Send(context.Background(), "g1", alice, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	msgs, err := svc.List(context.Background(), "g1", alice, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "message 2", msgs[0].Content)
	assert.Equal(t, "message 4", msgs[2].Content)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
	}
}

func TestSubscribeDeliversSnapshotAndCancelStops(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Udemy Courses", IsPremium: false})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())
	svc.pollInterval = 10 * time.Millisecond

	alice := testUser("alice")
	_, err := svc.Send(context.Background(), "g1", alice, "first")
	require.NoError(t, err)

	snapshots := make(chan []models.ChatMessage, 16)
	cancel, err := svc.Subscribe(context.Background(), "g1", alice, 10, func(msgs []models.ChatMessage) {
		snapshots <- msgs
	})
	require.NoError(t, err)

	select {
	case msgs := <-snapshots:
		require.Len(t, msgs, 1)
		assert.Equal(t, "first", msgs[0].Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	cancel()
	// Idempotent: a second cancel must not panic or block.
	cancel()
}

func TestSubscribePremiumGroupGated(t *testing.T) {
	st := newTestStore(t)
	seedGroup(t, st, models.Group{ID: "g1", Name: "Netflix Premium", IsPremium: true})

	members := NewMembershipService(st, zap.NewNop())
	svc := NewMessageService(st, members, zap.NewNop())

	_, err := svc.Subscribe(context.Background(), "g1", testUser("stranger"), 10, func([]models.ChatMessage) {})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
