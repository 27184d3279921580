// Package server assembles the HTTP JSON API: every request passes through
// the auth middleware (where required), then reaches the feed engine or the
// store accessors, and responses share one enrichment shape.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/auth"
	"github.com/nlysenko/podboard/feed"
	"github.com/nlysenko/podboard/file_store"
	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/server/middlewares"
	"gorm.io/gorm"
)

// Backend holds every injected collaborator of the API server. Nothing in
// here is package-global state: construct at startup, tear down at
// shutdown, substitute doubles in tests.
type Backend struct {
	db       *gorm.DB
	engine   *feed.Engine
	sessions auth.Registry
	index    search.Index
	audio    file_store.AudioStore
}

func NewBackend(db *gorm.DB, index search.Index, sessions auth.Registry, audio file_store.AudioStore, pageSize int) *Backend {
	return &Backend{
		db:       db,
		engine:   feed.NewEngine(db, index, pageSize),
		sessions: sessions,
		index:    index,
		audio:    audio,
	}
}

// Router mounts all API routes. Extra middleware (e.g. tracing) must be
// passed here because gin only applies engine-level middleware registered
// before the routes. Route strings deliberately avoid mixing a path
// parameter and a static segment at the same position, which the gin
// router tree does not allow.
func (b *Backend) Router(extra ...gin.HandlerFunc) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(extra...)

	sessionAuth := middlewares.SessionAuth(b.sessions)
	viewer := middlewares.Viewer(b.sessions)

	api := router.Group("/api")

	api.GET("", b.Help)
	api.GET("/help", b.Help)
	api.GET("/config", b.Config)

	api.POST("/register", b.Register)
	api.POST("/login", b.Login)
	api.POST("/logout", sessionAuth, b.Logout)

	api.GET("/feed", viewer, b.Feed)
	api.GET("/feed/:page", viewer, b.Feed)
	api.POST("/search/posts/:page", viewer, b.SearchPosts)

	api.POST("/post", sessionAuth, b.AddPost)
	api.GET("/post/:id", b.GetPost)
	api.DELETE("/post/:id", sessionAuth, b.DeletePost)
	api.POST("/post/:id/like", sessionAuth, b.LikePost)
	api.GET("/post/:id/is_liked", viewer, b.IsPostLiked)
	api.GET("/post/:id/likes", b.PostLikes)
	api.GET("/post/:id/likes/count", b.PostLikesCount)
	api.POST("/post/:id/comment", sessionAuth, b.AddComment)
	api.GET("/post/:id/comments", b.PostComments)
	api.GET("/post/:id/comments/count", b.PostCommentsCount)
	api.GET("/comment/:id", b.GetComment)

	api.GET("/user/:id", b.GetUser)
	api.GET("/posts/user/:id", viewer, b.UserPosts)
	api.GET("/profile/:id", viewer, b.Profile)

	api.GET("/sync/postgresql_to_elasticsearch", b.SyncIndex)

	return router
}
