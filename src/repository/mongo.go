package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/theleywin/vibora/src/lib"
)

const (
	usersCollection         = "users"
	connectionsCollection   = "connectionrequests"
	postsCollection         = "posts"
	messagesCollection      = "messages"
	notificationsCollection = "notifications"
)

// NewMongoStore wires every repository to collections of db
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:         &mongoUserRepository{coll: db.Collection(usersCollection)},
		Connections:   &mongoConnectionRepository{coll: db.Collection(connectionsCollection)},
		Posts:         &mongoPostRepository{coll: db.Collection(postsCollection)},
		Messages:      &mongoMessageRepository{coll: db.Collection(messagesCollection)},
		Notifications: &mongoNotificationRepository{coll: db.Collection(notificationsCollection)},
	}
}

func mongoErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return lib.NotFound(notFound)
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// pairFilter matches a row for {a, b} in either direction
func pairFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"fromUserId": a, "toUserId": b},
		bson.M{"fromUserId": b, "toUserId": a},
	}}
}

// touching matches rows where userID is either endpoint
func touching(userID primitive.ObjectID) bson.A {
	return bson.A{
		bson.M{"fromUserId": userID},
		bson.M{"toUserId": userID},
	}
}
