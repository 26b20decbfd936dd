package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/middleware"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/services"
)

// PostController serves posts and the feed
type PostController struct {
	posts *services.PostService
	feed  *services.FeedService
}

func NewPostController(posts *services.PostService, feed *services.FeedService) *PostController {
	return &PostController{posts: posts, feed: feed}
}

// CreatePost publishes a post for the authenticated user
func (pc *PostController) CreatePost(c *fiber.Ctx) error {
	var req models.PostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	post, err := pc.posts.Create(c.UserContext(), user.Id, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lib.DataResponse("Post created successfully", post))
}

// GetMyPosts lists the authenticated user's posts
func (pc *PostController) GetMyPosts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	posts, page, err := pc.posts.Mine(c.UserContext(), user.Id, pageQuery(c, services.DefaultPostsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Posts fetched successfully", posts, page))
}

// GetPostById returns a post by the caller or one of the caller's connections
func (pc *PostController) GetPostById(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId", "post")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	post, err := pc.posts.Get(c.UserContext(), user.Id, postID)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Post fetched successfully", post))
}

// EditPost replaces the content of one of the caller's posts
func (pc *PostController) EditPost(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId", "post")
	if err != nil {
		return err
	}
	var req models.PostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	post, err := pc.posts.Edit(c.UserContext(), user.Id, postID, req)
	if err != nil {
		return err
	}
	return c.JSON(lib.DataResponse("Post updated successfully", post))
}

// DeletePost hides one of the caller's posts
func (pc *PostController) DeletePost(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId", "post")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := pc.posts.Delete(c.UserContext(), user.Id, postID); err != nil {
		return err
	}
	return c.JSON(lib.MessageResponse("Post deleted successfully"))
}

// LikePost toggles the caller's like on a post
func (pc *PostController) LikePost(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId", "post")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	result, err := pc.posts.ToggleLike(c.UserContext(), user.Id, postID)
	if err != nil {
		return err
	}

	message := "Post unliked successfully"
	if result.Liked {
		message = "Post liked successfully"
	}
	return c.JSON(lib.DataResponse(message, result))
}

// CreateComment adds a comment to a post
func (pc *PostController) CreateComment(c *fiber.Ctx) error {
	postID, err := idParam(c, "postId", "post")
	if err != nil {
		return err
	}
	var req models.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	post, err := pc.posts.Comment(c.UserContext(), user.Id, postID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lib.DataResponse("Comment added successfully", post))
}

// GetFeedPosts lists posts by the caller and the caller's connections
func (pc *PostController) GetFeedPosts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	posts, page, err := pc.feed.Feed(c.UserContext(), user.Id, pageQuery(c, services.DefaultPostsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Feed fetched successfully", posts, page))
}

// GetUserPosts lists the posts of a connected user
func (pc *PostController) GetUserPosts(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId", "user")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	posts, page, err := pc.feed.UserFeed(c.UserContext(), user.Id, userID, pageQuery(c, services.DefaultPostsLimit))
	if err != nil {
		return err
	}
	return c.JSON(lib.PageResponse("Posts fetched successfully", posts, page))
}
