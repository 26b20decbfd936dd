// Package services implements the application operations on top of the repositories.
//
// Every operation takes the authenticated actor explicitly. Domain failures are returned
// as lib errors so the HTTP layer can map them to status codes.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

// storeErr passes domain errors through untouched and wraps the rest with op
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		domain     *lib.Error
		conflict   *lib.ConflictError
		validation *lib.ValidationError
	)
	if errors.As(err, &domain) || errors.As(err, &conflict) || errors.As(err, &validation) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// userIndex loads users by id for response hydration
func userIndex(ctx context.Context, users repository.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	found, err := users.FindByIDs(ctx, unique(ids))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	index := make(map[primitive.ObjectID]models.User, len(found))
	for _, u := range found {
		index[u.Id] = u
	}
	return index, nil
}

func publicDto(index map[primitive.ObjectID]models.User, id primitive.ObjectID) models.UserDto {
	if u, ok := index[id]; ok {
		return u.PublicDto()
	}
	return models.UserDto{ID: id}
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// activeUser loads a user and hides deactivated accounts
func activeUser(ctx context.Context, users repository.UserRepository, id primitive.ObjectID) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if !user.IsActive {
		return nil, lib.NotFound("User not found")
	}
	return user, nil
}

// Services bundles every service built over one store
type Services struct {
	Users         *UserService
	Connections   *ConnectionService
	Posts         *PostService
	Feed          *FeedService
	Messages      *MessageService
	Notifications *NotificationService
}

func New(store *repository.Store, tokens *lib.TokenIssuer, bcryptCost int, logger *zap.Logger) *Services {
	notifications := NewNotificationService(store, logger)
	connections := NewConnectionService(store, notifications)
	posts := NewPostService(store, connections, notifications)

	return &Services{
		Users:         NewUserService(store, tokens, bcryptCost),
		Connections:   connections,
		Posts:         posts,
		Feed:          NewFeedService(store, posts, connections),
		Messages:      NewMessageService(store, connections),
		Notifications: notifications,
	}
}
