package services

import (
	"context"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/store"

	"go.uber.org/zap"
)

// Reconciler repairs memberCount drift. The counter is best-effort under
// concurrent joins/removals from multiple devices, so it is periodically
// recomputed from the authoritative membership set instead of being treated
// as a hard invariant.
type Reconciler struct {
	store    store.Store
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewReconciler(st store.Store, logger *zap.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		store:    st,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the reconcile loop until Stop is called.
func (r *Reconciler) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := r.ReconcileOnce(ctx); err != nil {
					r.logger.Warn("member count reconciliation failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()
}

// Stop halts the loop and waits for the in-flight pass to finish.
func (r *Reconciler) Stop() {
	close(r.stop)
	<-r.done
}

// ReconcileOnce recomputes memberCount for every group and rewrites the ones
// that drifted. It returns the number of corrected groups.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	docs, err := r.store.GetCollection(ctx, store.CollectionGroups)
	if err != nil {
		return 0, err
	}
	groups, err := store.DecodeAll[models.Group](docs)
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, group := range groups {
		members, err := r.store.Query(ctx, store.CollectionMembers, "groupId", group.ID)
		if err != nil {
			return corrected, err
		}
		actual := len(members)
		if actual == group.MemberCount {
			continue
		}

		err = r.store.UpdateDocument(ctx, store.CollectionGroups, group.ID, store.Document{
			"memberCount": actual,
		})
		if err != nil {
			return corrected, err
		}
		corrected++
		r.logger.Info("member count corrected",
			zap.String("group_id", group.ID),
			zap.Int("was", group.MemberCount),
			zap.Int("now", actual))
	}
	return corrected, nil
}
