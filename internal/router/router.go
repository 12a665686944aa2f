package router

import (
	"github.com/gin-gonic/gin"
	"github.com/inkline/internal/handler"
	"go.uber.org/zap"
)

// Setup configures the Gin engine and mounts the API routes.
func Setup(api *handler.API, logger *zap.Logger, uploadURL, uploadDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(logger))

	r.Static(uploadURL, uploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			users.POST("/register", api.Register)
			users.POST("/login", api.Login)
			users.GET("/me", api.RequireAuth(), api.Me)
			users.PUT("/me", api.RequireAuth(), api.UpdateMe)
			users.GET("/:id", api.GetUser)
		}

		posts := apiGroup.Group("/posts")
		{
			posts.GET("", api.ListPosts)
			posts.GET("/:id", api.GetPost)
			posts.GET("/:id/comments", api.ListPostComments)
			posts.GET("/:id/media", api.ListPostMedia)

			authed := posts.Group("", api.RequireAuth())
			{
				authed.POST("", api.CreatePost)
				authed.PUT("/:id", api.UpdatePost)
				authed.DELETE("/:id", api.DeletePost)
				authed.POST("/:id/comments", api.CreateComment)
				authed.DELETE("/:id/media", api.DeletePostMedia)
			}
		}

		tags := apiGroup.Group("/tags")
		{
			tags.GET("", api.ListTags)
			tags.GET("/:id", api.GetTag)

			admin := tags.Group("", api.RequireAuth(), api.RequireAdmin())
			{
				admin.POST("", api.CreateTag)
				admin.PUT("/:id", api.UpdateTag)
				admin.DELETE("/:id", api.DeleteTag)
			}
		}

		categories := apiGroup.Group("/categories")
		{
			categories.GET("", api.ListCategories)
			categories.GET("/:id", api.GetCategory)

			admin := categories.Group("", api.RequireAuth(), api.RequireAdmin())
			{
				admin.POST("", api.CreateCategory)
				admin.PUT("/:id", api.UpdateCategory)
				admin.DELETE("/:id", api.DeleteCategory)
			}
		}

		comments := apiGroup.Group("/comments", api.RequireAuth())
		{
			comments.GET("/:id", api.GetComment)
			comments.PUT("/:id", api.UpdateComment)
			comments.DELETE("/:id", api.DeleteComment)
		}

		reactions := apiGroup.Group("/reactions")
		{
			reactions.POST("", api.RequireAuth(), api.ToggleReaction)
			reactions.GET("/:entityType/:entityId", api.OptionalAuth(), api.GetReactions)
		}

		media := apiGroup.Group("/media", api.RequireAuth())
		{
			media.GET("", api.ListMedia)
			media.GET("/:id", api.GetMedia)
			media.POST("", api.CreateMedia)
			media.POST("/bulk", api.BulkCreateMedia)
			media.POST("/upload", api.UploadMedia)
			media.PATCH("/:id", api.UpdateMedia)
			media.DELETE("/:id", api.DeleteMedia)
		}

		audit := apiGroup.Group("/audit", api.RequireAuth())
		{
			audit.GET("/users/:userId", api.ListUserAuditLogs)
			audit.GET("/:entityType/:entityId", api.RequireAdmin(), api.ListEntityAuditLogs)
		}
	}

	return r
}
