package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/models"
)

type messageRow struct {
	ID          string `gorm:"primaryKey;size:24"`
	SenderID    string `gorm:"index:idx_messages_pair;not null"`
	ReceiverID  string `gorm:"index:idx_messages_pair;index:idx_messages_unread;not null"`
	Message     string `gorm:"not null"`
	MessageType string
	MediaURL    string
	IsRead      bool `gorm:"index:idx_messages_unread"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (messageRow) TableName() string { return "messages" }

func (r messageRow) model() models.Message {
	return models.Message{
		Id:          oid(r.ID),
		SenderId:    oid(r.SenderID),
		ReceiverId:  oid(r.ReceiverID),
		Message:     r.Message,
		MessageType: models.MessageType(r.MessageType),
		MediaUrl:    r.MediaURL,
		IsRead:      r.IsRead,
		ReadAt:      r.ReadAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type sqliteMessageRepository struct {
	db *gorm.DB
}

func (r *sqliteMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	now := time.Now()
	msg.Id = primitive.NewObjectID()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	row := messageRow{
		ID:          msg.Id.Hex(),
		SenderID:    msg.SenderId.Hex(),
		ReceiverID:  msg.ReceiverId.Hex(),
		Message:     msg.Message,
		MessageType: string(msg.MessageType),
		MediaURL:    msg.MediaUrl,
		IsRead:      msg.IsRead,
		ReadAt:      msg.ReadAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return sqliteErr(r.db.WithContext(ctx).Create(&row).Error, "")
}

func (r *sqliteMessageRepository) Conversation(ctx context.Context, a, b primitive.ObjectID, page models.PageRequest) ([]models.Message, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a.Hex(), b.Hex(), b.Hex(), a.Hex(),
		)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&messageRow{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []messageRow
	err := r.db.WithContext(ctx).Scopes(filter).
		Order("created_at DESC").Order("id DESC").
		Offset(page.Skip()).Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	msgs := make([]models.Message, len(rows))
	for i, row := range rows {
		msgs[i] = row.model()
	}
	return msgs, total, nil
}

func (r *sqliteMessageRepository) MarkRead(ctx context.Context, from, to primitive.ObjectID) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&messageRow{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", from.Hex(), to.Hex(), false).
		Updates(map[string]any{"is_read": true, "read_at": now, "updated_at": now})
	return res.RowsAffected, res.Error
}

// Conversations groups in Go: the newest message per partner comes first because rows are read newest first.
func (r *sqliteMessageRepository) Conversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	var rows []messageRow
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID.Hex(), userID.Hex()).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	convs := []models.Conversation{}
	index := map[primitive.ObjectID]int{}
	for _, row := range rows {
		msg := row.model()
		partner := msg.SenderId
		if partner == userID {
			partner = msg.ReceiverId
		}

		i, ok := index[partner]
		if !ok {
			i = len(convs)
			index[partner] = i
			convs = append(convs, models.Conversation{PartnerId: partner, LastMessage: msg})
		}
		if msg.ReceiverId == userID && !msg.IsRead {
			convs[i].UnreadCount++
		}
	}
	return convs, nil
}

func (r *sqliteMessageRepository) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&messageRow{}).
		Where("receiver_id = ? AND is_read = ?", userID.Hex(), false).
		Count(&n).Error
	return n, err
}

func (r *sqliteMessageRepository) DeleteOwned(ctx context.Context, id, sender primitive.ObjectID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND sender_id = ?", id.Hex(), sender.Hex()).Delete(&messageRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sqliteErr(gorm.ErrRecordNotFound, "Message not found")
	}
	return nil
}
