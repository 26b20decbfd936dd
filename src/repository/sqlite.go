package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/theleywin/vibora/src/lib"
)

// NewSQLiteStore wires every repository to tables of db. Call AutoMigrate first.
func NewSQLiteStore(db *gorm.DB) *Store {
	return &Store{
		Users:         &sqliteUserRepository{db: db},
		Connections:   &sqliteConnectionRepository{db: db},
		Posts:         &sqlitePostRepository{db: db},
		Messages:      &sqliteMessageRepository{db: db},
		Notifications: &sqliteNotificationRepository{db: db},
	}
}

func sqliteErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return lib.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrDuplicate
	default:
		return err
	}
}

// Ids are stored as their hex form so both backends share primitive.ObjectID in the models.

func oid(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
