package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/models"
)

// postRow keeps likes and comments embedded as JSON, matching the document layout
type postRow struct {
	ID          string               `gorm:"primaryKey;size:24"`
	UserID      string               `gorm:"index;not null"`
	Content     string               `gorm:"not null"`
	Images      []string             `gorm:"serializer:json"`
	Videos      []string             `gorm:"serializer:json"`
	TaggedUsers []primitive.ObjectID `gorm:"serializer:json"`
	Likes       []models.Like        `gorm:"serializer:json"`
	Comments    []models.Comment     `gorm:"serializer:json"`
	IsActive    bool                 `gorm:"index"`
	CreatedAt   time.Time            `gorm:"index"`
	UpdatedAt   time.Time
}

func (postRow) TableName() string { return "posts" }

func (r postRow) model() models.Post {
	post := models.Post{
		Id:          oid(r.ID),
		UserId:      oid(r.UserID),
		Content:     r.Content,
		Images:      r.Images,
		Videos:      r.Videos,
		TaggedUsers: r.TaggedUsers,
		Likes:       r.Likes,
		Comments:    r.Comments,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return post
}

type sqlitePostRepository struct {
	db *gorm.DB
}

func (r *sqlitePostRepository) Create(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.Id = primitive.NewObjectID()
	post.IsActive = true
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	row := postRow{
		ID:          post.Id.Hex(),
		UserID:      post.UserId.Hex(),
		Content:     post.Content,
		Images:      post.Images,
		Videos:      post.Videos,
		TaggedUsers: post.TaggedUsers,
		Likes:       post.Likes,
		Comments:    post.Comments,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return sqliteErr(r.db.WithContext(ctx).Create(&row).Error, "")
}

func (r *sqlitePostRepository) GetActive(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	row, err := r.active(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	post := row.model()
	return &post, nil
}

func (r *sqlitePostRepository) active(tx *gorm.DB, id primitive.ObjectID) (*postRow, error) {
	var row postRow
	if err := tx.Where("id = ? AND is_active = ?", id.Hex(), true).First(&row).Error; err != nil {
		return nil, sqliteErr(err, postNotFound)
	}
	return &row, nil
}

func (r *sqlitePostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	values := &postRow{
		Content:     post.Content,
		Images:      post.Images,
		Videos:      post.Videos,
		TaggedUsers: post.TaggedUsers,
		UpdatedAt:   post.UpdatedAt,
	}
	return r.updateOwned(ctx, post.Id, post.UserId, values, "content", "images", "videos", "tagged_users", "updated_at")
}

func (r *sqlitePostRepository) SoftDelete(ctx context.Context, id, owner primitive.ObjectID) error {
	values := &postRow{IsActive: false, UpdatedAt: time.Now()}
	return r.updateOwned(ctx, id, owner, values, "is_active", "updated_at")
}

// updateOwned writes the selected columns, zero values included
func (r *sqlitePostRepository) updateOwned(ctx context.Context, id, owner primitive.ObjectID, values *postRow, columns ...string) error {
	res := r.db.WithContext(ctx).Model(&postRow{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id.Hex(), owner.Hex(), true).
		Select(columns).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sqliteErr(gorm.ErrRecordNotFound, postNotFound)
	}
	return nil
}

func (r *sqlitePostRepository) ListByAuthors(ctx context.Context, authors []primitive.ObjectID, page models.PageRequest) ([]models.Post, int64, error) {
	if len(authors) == 0 {
		return []models.Post{}, 0, nil
	}
	filter := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id IN ? AND is_active = ?", hexIDs(authors), true)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&postRow{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []postRow
	err := r.db.WithContext(ctx).Scopes(filter).
		Order("created_at DESC").Order("id DESC").
		Offset(page.Skip()).Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.model()
	}
	return posts, total, nil
}

func (r *sqlitePostRepository) AddLike(ctx context.Context, postID primitive.ObjectID, like models.Like) error {
	return r.mutate(ctx, postID, func(row *postRow) {
		for _, l := range row.Likes {
			if l.UserId == like.UserId {
				return
			}
		}
		row.Likes = append(row.Likes, like)
	})
}

func (r *sqlitePostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.mutate(ctx, postID, func(row *postRow) {
		kept := row.Likes[:0]
		for _, l := range row.Likes {
			if l.UserId != userID {
				kept = append(kept, l)
			}
		}
		row.Likes = kept
	})
}

func (r *sqlitePostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	return r.mutate(ctx, postID, func(row *postRow) {
		row.Comments = append(row.Comments, comment)
	})
}

// mutate is a read-modify-write of the embedded arrays inside one transaction
func (r *sqlitePostRepository) mutate(ctx context.Context, postID primitive.ObjectID, fn func(*postRow)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.active(tx, postID)
		if err != nil {
			return err
		}
		fn(row)
		return tx.Model(row).Select("likes", "comments").Updates(row).Error
	})
}
