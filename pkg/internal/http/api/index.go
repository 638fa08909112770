package api

import (
	"github.com/UID-Technologies/acado-engagement/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

var engagement *store.Store

func MapAPIs(app *fiber.App, baseURL string, s *store.Store) {
	engagement = s

	api := app.Group(baseURL).Name("API")
	{
		feed := api.Group("/feed").Name("Feed API")
		{
			feed.Get("/:view", getFeedView)
			feed.Post("/:view/refresh", refreshFeedView)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/:postId", getPostDetail)
			posts.Delete("/:postId", deletePost)
			posts.Get("/:postId/comments", listPostComments)
			posts.Post("/:postId/comments", createPostComment)
			posts.Post("/:postId/react", reactPost)
			posts.Post("/:postId/repost", createRepost)
		}

		api.Put("/reposts/:repostId", updateRepost)
	}
}
