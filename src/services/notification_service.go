package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	logger        *zap.Logger
}

func NewNotificationService(store *repository.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: store.Notifications,
		users:         store.Users,
		logger:        logger,
	}
}

// Notify stores a notification. Failures are logged and never reach the caller.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if n.Recipient == n.RelatedUser {
		return
	}
	if err := s.notifications.Create(ctx, &n); err != nil {
		s.logger.Warn("create notification failed",
			zap.String("type", string(n.Type)),
			zap.String("recipient", n.Recipient.Hex()),
			zap.Error(err),
		)
	}
}

// List returns recipient's notifications, newest first, with the related user populated
func (s *NotificationService) List(ctx context.Context, recipient primitive.ObjectID) ([]models.NotificationView, error) {
	list, err := s.notifications.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}

	related := make([]primitive.ObjectID, 0, len(list))
	for _, n := range list {
		if !n.RelatedUser.IsZero() {
			related = append(related, n.RelatedUser)
		}
	}
	index, err := userIndex(ctx, s.users, related)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, len(list))
	for i, n := range list {
		views[i] = models.NotificationView{Notification: n}
		if u, ok := index[n.RelatedUser]; ok {
			dto := u.PublicDto()
			views[i].RelatedUserDto = &dto
		}
	}
	return views, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id, recipient)
	if err != nil {
		return nil, storeErr("mark notification read", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	return storeErr("delete notification", s.notifications.Delete(ctx, id, recipient))
}
