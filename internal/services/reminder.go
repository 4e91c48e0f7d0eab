package services

import (
	"context"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/service"
	"communishare-be/internal/store"

	"go.uber.org/zap"
)

// Reminder emails members whose subscription is about to lapse or has entered
// its grace period. At most one reminder per membership per 24 hours.
type Reminder struct {
	store    store.Store
	emails   service.EmailProvider
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time
	lastSent map[string]time.Time
	stop     chan struct{}
	done     chan struct{}
}

func NewReminder(st store.Store, emails service.EmailProvider, logger *zap.Logger, interval time.Duration) *Reminder {
	return &Reminder{
		store:    st,
		emails:   emails,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the reminder loop until Stop is called.
func (r *Reminder) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := r.RunOnce(ctx); err != nil {
					r.logger.Warn("reminder pass failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()
}

// Stop halts the loop and waits for the in-flight pass to finish.
func (r *Reminder) Stop() {
	close(r.stop)
	<-r.done
}

// RunOnce scans every membership and sends reminders for the ones that are
// expiring soon or in their grace period. It returns the number of emails sent.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	docs, err := r.store.GetCollection(ctx, store.CollectionMembers)
	if err != nil {
		return 0, err
	}
	members, err := store.DecodeAll[models.GroupMember](docs)
	if err != nil {
		return 0, err
	}

	now := r.now()
	// Entries at or past the dedupe horizon would be resent anyway; dropping
	// them keeps the map bounded by the set of recently reminded memberships.
	for id, at := range r.lastSent {
		if now.Sub(at) >= 24*time.Hour {
			delete(r.lastSent, id)
		}
	}

	sent := 0
	for i := range members {
		member := &members[i]
		status := EvaluateSubscription(member, now)
		if !status.IsExpiringSoon && !status.IsInGracePeriod {
			continue
		}
		if last, ok := r.lastSent[member.ID]; ok && now.Sub(last) < 24*time.Hour {
			continue
		}

		groupName := member.GroupID
		if doc, err := r.store.GetDocument(ctx, store.CollectionGroups, member.GroupID); err == nil {
			var group models.Group
			if err := store.Decode(doc, &group); err == nil {
				groupName = group.Name
			}
		}

		data := service.ReminderEmailData{
			Email:         member.UserEmail,
			Name:          member.UserName,
			GroupName:     groupName,
			DaysUntilEnd:  status.DaysUntilExpiry,
			InGracePeriod: status.IsInGracePeriod,
		}
		if err := r.emails.SendRenewalReminder(ctx, data); err != nil {
			r.logger.Warn("reminder email failed",
				zap.String("member_id", member.ID),
				zap.Error(err))
			continue
		}
		r.lastSent[member.ID] = now
		sent++
	}
	return sent, nil
}
