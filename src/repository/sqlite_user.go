package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/models"
)

type userRow struct {
	ID        string `gorm:"primaryKey;size:24"`
	FirstName string
	LastName  string
	EmailID   string `gorm:"uniqueIndex;not null"`
	Password  string
	Age       int
	Gender    string
	About     string
	PhotoURL  string
	IsActive  bool `gorm:"index"`
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

func newUserRow(u *models.User) *userRow {
	return &userRow{
		ID:        u.Id.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		EmailID:   u.EmailId,
		Password:  u.Password,
		Age:       u.Age,
		Gender:    u.Gender,
		About:     u.About,
		PhotoURL:  u.PhotoUrl,
		IsActive:  u.IsActive,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r userRow) model() models.User {
	return models.User{
		Id:        oid(r.ID),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		EmailId:   r.EmailID,
		Password:  r.Password,
		Age:       r.Age,
		Gender:    r.Gender,
		About:     r.About,
		PhotoUrl:  r.PhotoURL,
		IsActive:  r.IsActive,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func userModels(rows []userRow) []models.User {
	users := make([]models.User, len(rows))
	for i, row := range rows {
		users[i] = row.model()
	}
	return users
}

type sqliteUserRepository struct {
	db *gorm.DB
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return sqliteErr(r.db.WithContext(ctx).Create(newUserRow(user)).Error, "")
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.first(ctx, "id = ?", id.Hex())
}

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email_id = ?", email)
}

func (r *sqliteUserRepository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		return nil, sqliteErr(err, "User not found")
	}
	user := row.model()
	return &user, nil
}

func (r *sqliteUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var rows []userRow
	if err := r.db.WithContext(ctx).Where("id IN ?", hexIDs(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return userModels(rows), nil
}

func (r *sqliteUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	row := newUserRow(user)
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", row.ID).Updates(map[string]any{
		"first_name": row.FirstName,
		"last_name":  row.LastName,
		"email_id":   row.EmailID,
		"password":   row.Password,
		"age":        row.Age,
		"gender":     row.Gender,
		"about":      row.About,
		"photo_url":  row.PhotoURL,
		"is_active":  row.IsActive,
		"deleted_at": row.DeletedAt,
		"updated_at": row.UpdatedAt,
	})
	if res.Error != nil {
		return sqliteErr(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return sqliteErr(gorm.ErrRecordNotFound, "User not found")
	}
	return nil
}

func (r *sqliteUserRepository) Search(ctx context.Context, query string, exclude []primitive.ObjectID, page models.PageRequest) ([]models.User, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("is_active = ?", true)
		if len(exclude) > 0 {
			tx = tx.Where("id NOT IN ?", hexIDs(exclude))
		}
		if query != "" {
			p := likePattern(query)
			tx = tx.Where(
				`(lower(first_name) LIKE ? ESCAPE '\' OR lower(last_name) LIKE ? ESCAPE '\' OR lower(email_id) LIKE ? ESCAPE '\')`,
				p, p, p,
			)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userRow
	err := r.db.WithContext(ctx).Scopes(filter).
		Order("first_name ASC").Order("id ASC").
		Offset(page.Skip()).Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return userModels(rows), total, nil
}
