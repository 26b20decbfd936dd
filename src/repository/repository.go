// Package repository holds the store interfaces and their MongoDB and SQLite implementations.
//
// Lookups that find nothing return an error matching lib.ErrNotFound. Inserts that collide
// with a unique index return ErrDuplicate.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/models"
)

var ErrDuplicate = errors.New("duplicate key")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Search matches active users by name or email, case-insensitively. An empty query matches everyone.
	Search(ctx context.Context, query string, exclude []primitive.ObjectID, page models.PageRequest) ([]models.User, int64, error)
}

// ConnectionRepository stores one row per unordered pair of users.
//
// Pair lookups check both directions. Directed lookups match from/to exactly.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.ConnectionRequest) error
	GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error)
	GetDirected(ctx context.Context, from, to primitive.ObjectID, status models.ConnectionStatus) (*models.ConnectionRequest, error)
	// UpdateStatus moves the row to next when its current status is one of expected (any if empty).
	UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.ConnectionStatus, expected ...models.ConnectionStatus) (*models.ConnectionRequest, error)
	// Delete removes the row only while it is still in the expected status.
	Delete(ctx context.Context, id primitive.ObjectID, expected models.ConnectionStatus) error

	ListFriends(ctx context.Context, userID primitive.ObjectID, page models.PageRequest) ([]models.ConnectionRequest, int64, error)
	ListReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error)
	ListSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) ([]models.ConnectionRequest, error)

	CountByStatus(ctx context.Context, userID primitive.ObjectID) (map[models.ConnectionStatus]int64, error)
	CountReceived(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error)
	CountSent(ctx context.Context, userID primitive.ObjectID, status models.ConnectionStatus) (int64, error)

	ExistsAccepted(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	// PeerIDs lists the other endpoint of every row touching userID, optionally filtered by status.
	PeerIDs(ctx context.Context, userID primitive.ObjectID, statuses ...models.ConnectionStatus) ([]primitive.ObjectID, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetActive(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// Update rewrites content, media and tags of an active post owned by post.UserId.
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id, owner primitive.ObjectID) error
	ListByAuthors(ctx context.Context, authors []primitive.ObjectID, page models.PageRequest) ([]models.Post, int64, error)
	AddLike(ctx context.Context, postID primitive.ObjectID, like models.Like) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	// Conversation returns one page of messages between a and b, newest first.
	Conversation(ctx context.Context, a, b primitive.ObjectID, page models.PageRequest) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, from, to primitive.ObjectID) (int64, error)
	// Conversations groups userID's messages by partner, most recent conversation first.
	Conversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteOwned(ctx context.Context, id, sender primitive.ObjectID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error)
	Delete(ctx context.Context, id, recipient primitive.ObjectID) error
}

// Store bundles the repositories of one backend
type Store struct {
	Users         UserRepository
	Connections   ConnectionRepository
	Posts         PostRepository
	Messages      MessageRepository
	Notifications NotificationRepository
}
