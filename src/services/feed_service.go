package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

const DefaultSuggestionsLimit = 10

// FeedService builds the post feed and the user discovery lists
type FeedService struct {
	users       repository.UserRepository
	posts       *PostService
	connections *ConnectionService
}

func NewFeedService(store *repository.Store, posts *PostService, connections *ConnectionService) *FeedService {
	return &FeedService{users: store.Users, posts: posts, connections: connections}
}

// Feed lists posts by actor and actor's active connections
func (s *FeedService) Feed(ctx context.Context, actor primitive.ObjectID, page models.PageRequest) ([]models.PostDto, models.Pagination, error) {
	friends, err := s.connections.FriendIDs(ctx, actor)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	index, err := userIndex(ctx, s.users, friends)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	authors := make([]primitive.ObjectID, 0, len(friends)+1)
	for _, id := range friends {
		if u, ok := index[id]; ok && u.IsActive {
			authors = append(authors, id)
		}
	}
	return s.posts.ListByAuthors(ctx, append(authors, actor), page)
}

// UserFeed lists target's posts, which actor may only see when connected to target
func (s *FeedService) UserFeed(ctx context.Context, actor, target primitive.ObjectID, page models.PageRequest) ([]models.PostDto, models.Pagination, error) {
	if _, err := activeUser(ctx, s.users, target); err != nil {
		return nil, models.Pagination{}, err
	}
	connected, err := s.connections.AreConnected(ctx, actor, target)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if !connected {
		return nil, models.Pagination{}, lib.Forbidden("You can only view posts from your connections")
	}
	return s.posts.ListByAuthors(ctx, []primitive.ObjectID{target}, page)
}

// Search finds active users by name or email, skipping actor and anyone actor already has a row with
func (s *FeedService) Search(ctx context.Context, actor primitive.ObjectID, query string, page models.PageRequest) ([]models.UserDto, models.Pagination, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.Pagination{}, lib.NewValidation("search", "Search query is required")
	}
	return s.discover(ctx, actor, query, page)
}

// Suggestions lists active users actor has no connection row with
func (s *FeedService) Suggestions(ctx context.Context, actor primitive.ObjectID, page models.PageRequest) ([]models.UserDto, models.Pagination, error) {
	return s.discover(ctx, actor, "", page)
}

func (s *FeedService) discover(ctx context.Context, actor primitive.ObjectID, query string, page models.PageRequest) ([]models.UserDto, models.Pagination, error) {
	exclude, err := s.connections.RelatedIDs(ctx, actor)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	users, total, err := s.users.Search(ctx, query, append(exclude, actor), page)
	if err != nil {
		return nil, models.Pagination{}, storeErr("search users", err)
	}

	dtos := make([]models.UserDto, len(users))
	for i, u := range users {
		dtos[i] = u.PublicDto()
	}
	return dtos, page.Result(total), nil
}
