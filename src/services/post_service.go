package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

const DefaultPostsLimit = 10

type PostService struct {
	posts         repository.PostRepository
	users         repository.UserRepository
	connections   *ConnectionService
	notifications *NotificationService
}

func NewPostService(store *repository.Store, connections *ConnectionService, notifications *NotificationService) *PostService {
	return &PostService{
		posts:         store.Posts,
		users:         store.Users,
		connections:   connections,
		notifications: notifications,
	}
}

func (s *PostService) Create(ctx context.Context, actor primitive.ObjectID, req models.PostRequest) (*models.PostDto, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := lib.Validate(req); err != nil {
		return nil, err
	}
	tagged, err := s.taggedUsers(ctx, req.TaggedUsers)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserId:      actor,
		Content:     req.Content,
		Images:      orEmpty(req.Images),
		Videos:      orEmpty(req.Videos),
		TaggedUsers: tagged,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeErr("create post", err)
	}
	return s.single(ctx, post)
}

// taggedUsers parses the ids and checks every one belongs to an existing user
func (s *PostService) taggedUsers(ctx context.Context, hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, lib.NewValidation("taggedUsers", "taggedUsers must be a valid id")
		}
		ids = append(ids, id)
	}
	ids = unique(ids)
	if len(ids) == 0 {
		return ids, nil
	}

	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("load tagged users", err)
	}
	if len(found) != len(ids) {
		return nil, lib.NewValidation("taggedUsers", "Some tagged users do not exist")
	}
	return ids, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Get returns a post visible to actor: its own or a connection's
func (s *PostService) Get(ctx context.Context, actor, postID primitive.ObjectID) (*models.PostDto, error) {
	post, err := s.visible(ctx, actor, postID)
	if err != nil {
		return nil, err
	}
	return s.single(ctx, post)
}

func (s *PostService) visible(ctx context.Context, actor, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetActive(ctx, postID)
	if err != nil {
		return nil, storeErr("get post", err)
	}
	connected, err := s.connections.AreConnected(ctx, actor, post.UserId)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, lib.Forbidden("You can only interact with posts from your connections")
	}
	return post, nil
}

func (s *PostService) owned(ctx context.Context, actor, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetActive(ctx, postID)
	if err != nil {
		return nil, storeErr("get post", err)
	}
	if post.UserId != actor {
		return nil, lib.Forbidden("You are not authorized to modify this post")
	}
	return post, nil
}

func (s *PostService) Edit(ctx context.Context, actor, postID primitive.ObjectID, req models.PostRequest) (*models.PostDto, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := lib.Validate(req); err != nil {
		return nil, err
	}
	post, err := s.owned(ctx, actor, postID)
	if err != nil {
		return nil, err
	}
	tagged, err := s.taggedUsers(ctx, req.TaggedUsers)
	if err != nil {
		return nil, err
	}

	post.Content = req.Content
	post.Images = orEmpty(req.Images)
	post.Videos = orEmpty(req.Videos)
	post.TaggedUsers = tagged
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, storeErr("update post", err)
	}
	return s.single(ctx, post)
}

// Delete hides the post. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, actor, postID primitive.ObjectID) error {
	if _, err := s.owned(ctx, actor, postID); err != nil {
		return err
	}
	return storeErr("delete post", s.posts.SoftDelete(ctx, postID, actor))
}

// ToggleLike likes the post, or removes actor's like if there is one
func (s *PostService) ToggleLike(ctx context.Context, actor, postID primitive.ObjectID) (models.LikeResult, error) {
	post, err := s.visible(ctx, actor, postID)
	if err != nil {
		return models.LikeResult{}, err
	}

	liked := !post.LikedBy(actor)
	if liked {
		err = s.posts.AddLike(ctx, postID, models.Like{UserId: actor, LikedAt: time.Now()})
	} else {
		err = s.posts.RemoveLike(ctx, postID, actor)
	}
	if err != nil {
		return models.LikeResult{}, storeErr("toggle like", err)
	}

	if liked {
		s.notifications.Notify(ctx, models.Notification{
			Recipient:   post.UserId,
			Type:        models.NotificationTypeLike,
			RelatedUser: actor,
			RelatedPost: postID,
		})
	}

	updated, err := s.posts.GetActive(ctx, postID)
	if err != nil {
		return models.LikeResult{}, storeErr("reload post", err)
	}
	return models.LikeResult{Liked: updated.LikedBy(actor), Count: len(updated.Likes)}, nil
}

func (s *PostService) Comment(ctx context.Context, actor, postID primitive.ObjectID, req models.CommentRequest) (*models.PostDto, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := lib.Validate(req); err != nil {
		return nil, err
	}
	post, err := s.visible(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		Id:          primitive.NewObjectID(),
		UserId:      actor,
		Comment:     req.Comment,
		CommentedAt: time.Now(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, storeErr("add comment", err)
	}

	s.notifications.Notify(ctx, models.Notification{
		Recipient:   post.UserId,
		Type:        models.NotificationTypeComment,
		RelatedUser: actor,
		RelatedPost: postID,
	})

	updated, err := s.posts.GetActive(ctx, postID)
	if err != nil {
		return nil, storeErr("reload post", err)
	}
	return s.single(ctx, updated)
}

// ListByAuthors pages through the active posts of authors, newest first
func (s *PostService) ListByAuthors(ctx context.Context, authors []primitive.ObjectID, page models.PageRequest) ([]models.PostDto, models.Pagination, error) {
	posts, total, err := s.posts.ListByAuthors(ctx, authors, page)
	if err != nil {
		return nil, models.Pagination{}, storeErr("list posts", err)
	}
	dtos, err := s.dtos(ctx, posts)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return dtos, page.Result(total), nil
}

func (s *PostService) Mine(ctx context.Context, actor primitive.ObjectID, page models.PageRequest) ([]models.PostDto, models.Pagination, error) {
	return s.ListByAuthors(ctx, []primitive.ObjectID{actor}, page)
}

func (s *PostService) single(ctx context.Context, post *models.Post) (*models.PostDto, error) {
	dtos, err := s.dtos(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// dtos populates authors, tagged users, likers and commenters with one user lookup
func (s *PostService) dtos(ctx context.Context, posts []models.Post) ([]models.PostDto, error) {
	var ids []primitive.ObjectID
	for _, p := range posts {
		ids = append(ids, p.UserId)
		ids = append(ids, p.TaggedUsers...)
		for _, l := range p.Likes {
			ids = append(ids, l.UserId)
		}
		for _, c := range p.Comments {
			ids = append(ids, c.UserId)
		}
	}
	index, err := userIndex(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PostDto, len(posts))
	for i, p := range posts {
		dto := models.PostDto{
			ID:          p.Id,
			Author:      publicDto(index, p.UserId),
			Content:     p.Content,
			Images:      orEmpty(p.Images),
			Videos:      orEmpty(p.Videos),
			TaggedUsers: make([]models.UserDto, len(p.TaggedUsers)),
			Likes:       make([]models.LikeDto, len(p.Likes)),
			Comments:    make([]models.CommentDto, len(p.Comments)),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		for j, id := range p.TaggedUsers {
			dto.TaggedUsers[j] = publicDto(index, id)
		}
		for j, l := range p.Likes {
			dto.Likes[j] = models.LikeDto{User: publicDto(index, l.UserId), LikedAt: l.LikedAt}
		}
		for j, c := range p.Comments {
			dto.Comments[j] = models.CommentDto{
				ID:          c.Id,
				Comment:     c.Comment,
				User:        publicDto(index, c.UserId),
				CommentedAt: c.CommentedAt,
			}
		}
		out[i] = dto
	}
	return out, nil
}
