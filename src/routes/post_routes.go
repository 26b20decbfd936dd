package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/vibora/src/controllers"
)

// PostRoutes sets up post creation, editing, likes, comments and the feed
func PostRoutes(app *fiber.App, pc *controllers.PostController, protect fiber.Handler) {
	post := app.Group("/post", protect)
	post.Post("/create", pc.CreatePost)
	post.Get("/my", pc.GetMyPosts)
	post.Patch("/edit/:postId", pc.EditPost)
	post.Delete("/delete/:postId", pc.DeletePost)
	post.Post("/like/:postId", pc.LikePost)
	post.Post("/comment/:postId", pc.CreateComment)
	post.Get("/:postId", pc.GetPostById)

	// /feed/users/search is registered by UserRoutes, so protect is per route here
	feed := app.Group("/feed")
	feed.Get("/", protect, pc.GetFeedPosts)
	feed.Get("/user/:userId", protect, pc.GetUserPosts)
}
