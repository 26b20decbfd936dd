package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/models"
)

type connectionRow struct {
	ID         string `gorm:"primaryKey;size:24"`
	FromUserID string `gorm:"index;not null"`
	ToUserID   string `gorm:"index;not null"`
	PairKey    string `gorm:"uniqueIndex;not null"`
	Status     string `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (connectionRow) TableName() string { return "connection_requests" }

func (r connectionRow) model() models.ConnectionRequest {
	return models.ConnectionRequest{
		Id:         oid(r.ID),
		FromUserId: oid(r.FromUserID),
		ToUserId:   oid(r.ToUserID),
		PairKey:    r.PairKey,
		Status:     models.ConnectionStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func connectionModels(rows []connectionRow) []models.ConnectionRequest {
	out := make([]models.ConnectionRequest, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out
}

type sqliteConnectionRepository struct {
	db *gorm.DB
}

func touchingSQL(userID primitive.ObjectID) (string, string, string) {
	return "(from_user_id = ? OR to_user_id = ?)", userID.Hex(), userID.Hex()
}

func (r *sqliteConnectionRepository) Create(ctx context.Context, conn *models.ConnectionRequest) error {
	now := time.Now()
	conn.Id = primitive.NewObjectID()
	conn.PairKey = models.PairKey(conn.FromUserId, conn.ToUserId)
	conn.CreatedAt = now
	conn.UpdatedAt = now

	row := connectionRow{
		ID:         conn.Id.Hex(),
		FromUserID: conn.FromUserId.Hex(),
		ToUserID:   conn.ToUserId.Hex(),
		PairKey:    conn.PairKey,
		Status:     string(conn.Status),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return sqliteErr(r.db.WithContext(ctx).Create(&row).Error, "")
}

func (r *sqliteConnectionRepository) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error) {
	return r.first(r.db.WithContext(ctx).Where("pair_key = ?", models.PairKey(a, b)))
}

func (r *sqliteConnectionRepository) GetDirected(ctx context.Context, from, to primitive.ObjectID, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	return r.first(r.db.WithContext(ctx).Where(
		"from_user_id = ? AND to_user_id = ? AND status = ?", from.Hex(), to.Hex(), string(status),
	))
}

func (r *sqliteConnectionRepository) first(tx *gorm.DB) (*models.ConnectionRequest, error) {
	var row connectionRow
	if err := tx.First(&row).Error; err != nil {
		return nil, sqliteErr(err, connectionNotFound)
	}
	conn := row.model()
	return &conn, nil
}

func (r *sqliteConnectionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.ConnectionStatus, expected ...models.ConnectionStatus) (*models.ConnectionRequest, error) {
	tx := r.db.WithContext(ctx).Model(&connectionRow{}).Where("id = ?", id.Hex())
	if len(expected) > 0 {
		tx = tx.Where("status IN ?", statusStrings(expected))
	}

	res := tx.Updates(map[string]any{"status": string(next), "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, sqliteErr(gorm.ErrRecordNotFound, connectionNotFound)
	}
	return r.first(r.db.WithContext(ctx).Where("id = ?", id.Hex()))
}

func (r *sqliteConnectionRepository) Delete(ctx context.Context, id primitive.ObjectID, expected models.ConnectionStatus) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id.Hex(), string(expected)).
		Delete(&connectionRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sqliteErr(gorm.ErrRecordNotFound, connectionNotFound)
	}
	return nil
}

func (r *sqliteConnectionRepository) ListFriends(ctx context.Context, userID primitive.ObjectID, page models.PageRequest) ([]models.ConnectionRequest, int64, error) {
	query, from, to := touchingSQL(userID)
	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", string(models.ConnectionStatusAccepted)).Where(query, from, to)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&connectionRow{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []connectionRow
	err := r.db.WithContext(ctx).Scopes(filter).
		Order("updated_at DESC").
		Offset(page.Skip()).Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return connectionModels(rows), total, nil
}

func (r *sqliteConnectionRepository) ListReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	return r.list(ctx, "to_user_id = ? AND status = ?", userID.Hex(), string(status))
}

func (r *sqliteConnectionRepository) ListSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	return r.list(ctx, "from_user_id = ? AND status = ?", userID.Hex(), string(status))
}

func (r *sqliteConnectionRepository) list(ctx context.Context, query string, args ...any) ([]models.ConnectionRequest, error) {
	var rows []connectionRow
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return connectionModels(rows), nil
}

func (r *sqliteConnectionRepository) CountByStatus(ctx context.Context, userID primitive.ObjectID) (map[models.ConnectionStatus]int64, error) {
	var groups []struct {
		Status string
		Count  int64
	}
	query, from, to := touchingSQL(userID)
	err := r.db.WithContext(ctx).Model(&connectionRow{}).
		Select("status, COUNT(*) AS count").
		Where(query, from, to).
		Group("status").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ConnectionStatus]int64, len(groups))
	for _, g := range groups {
		counts[models.ConnectionStatus(g.Status)] = g.Count
	}
	return counts, nil
}

func (r *sqliteConnectionRepository) CountReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error) {
	return r.count(ctx, "to_user_id = ? AND status = ?", userID.Hex(), string(status))
}

func (r *sqliteConnectionRepository) CountSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error) {
	return r.count(ctx, "from_user_id = ? AND status = ?", userID.Hex(), string(status))
}

func (r *sqliteConnectionRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&connectionRow{}).Where(query, args...).Count(&n).Error
	return n, err
}

func (r *sqliteConnectionRepository) ExistsAccepted(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := r.count(ctx, "pair_key = ? AND status = ?", models.PairKey(a, b), string(models.ConnectionStatusAccepted))
	return n > 0, err
}

func (r *sqliteConnectionRepository) PeerIDs(ctx context.Context, userID primitive.ObjectID, statuses ...models.ConnectionStatus) ([]primitive.ObjectID, error) {
	query, from, to := touchingSQL(userID)
	tx := r.db.WithContext(ctx).Select("from_user_id", "to_user_id").Where(query, from, to)
	if len(statuses) > 0 {
		tx = tx.Where("status IN ?", statusStrings(statuses))
	}

	var rows []connectionRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.model().Peer(userID))
	}
	return ids, nil
}
