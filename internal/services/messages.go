package services

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"communishare-be/internal/models"
	"communishare-be/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMessageLimit = 50

var linkPattern = regexp.MustCompile(`https?://\S+`)

// MessageService handles group chat persistence and the access gate on every
// send and read. Message delivery cadence is independent of the gate: an
// expired subscription blocks the next send attempt, it does not retract
// already delivered history.
type MessageService struct {
	store        store.Store
	members      *MembershipService
	logger       *zap.Logger
	now          func() time.Time
	pollInterval time.Duration
}

func NewMessageService(st store.Store, members *MembershipService, logger *zap.Logger) *MessageService {
	return &MessageService{
		store:        st,
		members:      members,
		logger:       logger,
		now:          time.Now,
		pollInterval: 2 * time.Second,
	}
}

// Send persists a message after re-evaluating the access gate for the
// sender. Links are tagged so clients can render them as such.
func (s *MessageService) Send(ctx context.Context, groupID string, user *models.User, content string) (*models.ChatMessage, error) {
	group, err := s.members.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, group, user); err != nil {
		return nil, err
	}

	msgType := models.MessageTypeText
	if linkPattern.MatchString(content) {
		msgType = models.MessageTypeLink
	}

	message := &models.ChatMessage{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		UserID:    user.ID.String(),
		UserName:  user.DisplayName,
		UserEmail: user.Email,
		Content:   content,
		Type:      msgType,
		CreatedAt: s.now().UTC(),
	}

	doc, err := store.Encode(message)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDocument(ctx, store.CollectionMessages, message.ID, doc); err != nil {
		return nil, err
	}
	return message, nil
}

// List returns the last limit messages for a group in chronological order,
// gated the same way as Send.
func (s *MessageService) List(ctx context.Context, groupID string, user *models.User, limit int) ([]models.ChatMessage, error) {
	group, err := s.members.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, group, user); err != nil {
		return nil, err
	}
	return s.list(ctx, groupID, limit)
}

// Subscribe delivers message snapshots to fn until the returned cancel
// function is called or ctx is done. Every code path that establishes a
// stream must call cancel on teardown; it stops the polling timer and
// releases the listener.
func (s *MessageService) Subscribe(ctx context.Context, groupID string, user *models.User, limit int, fn func([]models.ChatMessage)) (func(), error) {
	group, err := s.members.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, group, user); err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		// Initial snapshot before the first tick.
		if messages, err := s.list(ctx, groupID, limit); err == nil {
			fn(messages)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				messages, err := s.list(ctx, groupID, limit)
				if err != nil {
					s.logger.Warn("message poll failed",
						zap.String("group_id", groupID), zap.Error(err))
					continue
				}
				fn(messages)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			<-done
		})
	}
	return cancel, nil
}

func (s *MessageService) list(ctx context.Context, groupID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	docs, err := s.store.Query(ctx, store.CollectionMessages, "groupId", groupID)
	if err != nil {
		return nil, err
	}
	messages, err := store.DecodeAll[models.ChatMessage](docs)
	if err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (s *MessageService) checkAccess(ctx context.Context, group *models.Group, user *models.User) error {
	member, err := s.members.Membership(ctx, group.ID, user.ID.String())
	if err != nil {
		return err
	}
	status := EvaluateSubscription(member, s.now())
	if !CanAccess(group, status) {
		return ErrAccessDenied
	}
	return nil
}
