package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/models"
)

type notificationRow struct {
	ID          string `gorm:"primaryKey;size:24"`
	Recipient   string `gorm:"index;not null"`
	Type        string `gorm:"not null"`
	RelatedUser string
	RelatedPost string
	Read        bool
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (notificationRow) TableName() string { return "notifications" }

func optionalHex(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func (r notificationRow) model() models.Notification {
	return models.Notification{
		Id:          oid(r.ID),
		Recipient:   oid(r.Recipient),
		Type:        models.NotificationType(r.Type),
		RelatedUser: oid(r.RelatedUser),
		RelatedPost: oid(r.RelatedPost),
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type sqliteNotificationRepository struct {
	db *gorm.DB
}

func (r *sqliteNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.Id = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now

	row := notificationRow{
		ID:          n.Id.Hex(),
		Recipient:   n.Recipient.Hex(),
		Type:        string(n.Type),
		RelatedUser: optionalHex(n.RelatedUser),
		RelatedPost: optionalHex(n.RelatedPost),
		Read:        n.Read,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return sqliteErr(r.db.WithContext(ctx).Create(&row).Error, "")
}

func (r *sqliteNotificationRepository) ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	var rows []notificationRow
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient.Hex()).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Notification, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *sqliteNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error) {
	res := r.db.WithContext(ctx).Model(&notificationRow{}).
		Where("id = ? AND recipient = ?", id.Hex(), recipient.Hex()).
		Updates(map[string]any{"read": true, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, sqliteErr(gorm.ErrRecordNotFound, notificationNotFound)
	}

	var row notificationRow
	if err := r.db.WithContext(ctx).Where("id = ?", id.Hex()).First(&row).Error; err != nil {
		return nil, sqliteErr(err, notificationNotFound)
	}
	n := row.model()
	return &n, nil
}

func (r *sqliteNotificationRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND recipient = ?", id.Hex(), recipient.Hex()).Delete(&notificationRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sqliteErr(gorm.ErrRecordNotFound, notificationNotFound)
	}
	return nil
}
