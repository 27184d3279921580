package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteInfo is one entry of the hand-maintained route manifest. Keep this
// list in sync with Router; it replaces runtime route reflection on
// purpose, so the help payload is stable and reviewable.
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Doc    string `json:"doc"`
}

var routeManifest = []RouteInfo{
	{"GET", "/api/", "this route manifest"},
	{"GET", "/api/config", "client configuration: {page_size}"},
	{"GET", "/api/help", "this route manifest"},
	{"POST", "/api/register", "REQUIRE JSON: {login, pwd_hash}"},
	{"POST", "/api/login", "REQUIRE JSON: {login, pwd_hash}"},
	{"POST", "/api/logout", "auth required"},
	{"GET", "/api/feed", "first feed page"},
	{"GET", "/api/feed/:page", "feed page, 1-based"},
	{"POST", "/api/search/posts/:page", "REQUIRE JSON: {query}"},
	{"POST", "/api/post", "auth required; multipart: data JSON part + file audio part"},
	{"GET", "/api/post/:id", "single post"},
	{"DELETE", "/api/post/:id", "auth required, author only"},
	{"POST", "/api/post/:id/like", "auth required; toggles like state"},
	{"GET", "/api/post/:id/is_liked", "liked by current viewer"},
	{"GET", "/api/post/:id/likes", "all likes of a post"},
	{"GET", "/api/post/:id/likes/count", "like count"},
	{"POST", "/api/post/:id/comment", "auth required; REQUIRE JSON: {comment_text}"},
	{"GET", "/api/post/:id/comments", "all comments of a post"},
	{"GET", "/api/post/:id/comments/count", "comment count"},
	{"GET", "/api/comment/:id", "single comment"},
	{"GET", "/api/user/:id", "public user projection"},
	{"GET", "/api/posts/user/:id", "user's posts, enriched"},
	{"GET", "/api/profile/:id", "user plus their enriched posts"},
	{"GET", "/api/sync/postgresql_to_elasticsearch", "operator: re-index all posts"},
}

func (b *Backend) Help(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": routeManifest})
}
