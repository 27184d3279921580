package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/auth"
	"github.com/nlysenko/podboard/utils"
	"github.com/nlysenko/podboard/utils/flag"
)

const (
	// UserIDKey is the gin context key under which middleware stores the
	// acting user's id for handlers downstream.
	UserIDKey = "user_id"

	userIDCookie = "user_id"
	tokenCookie  = "session_token"
)

// credentials reads the paired (user_id, session_token) cookies. ok is
// false when either credential is absent or the id is not numeric.
func credentials(c *gin.Context) (userID uint, token string, ok bool) {
	idStr, err := c.Cookie(userIDCookie)
	if err != nil {
		return 0, "", false
	}
	token, err = c.Cookie(tokenCookie)
	if err != nil || token == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return uint(id), token, true
}

// SessionAuth guards protected routes. It fails closed: a missing
// credential and a mismatched one produce the same 401, so a caller cannot
// probe which half was wrong. On success the acting user id is stored in
// the context under UserIDKey.
func SessionAuth(sessions auth.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, token, ok := credentials(c)
		if flag.ByPassAuth {
			c.Set(UserIDKey, userID)
			c.Next()
			return
		}
		if !ok || !sessions.Validate(userID, token) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": utils.ErrorSessionAuthFail,
				"msg":  "not authenticated",
			})
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)

		c.Next()
	}
}

// Viewer resolves the viewer identity on routes that allow anonymous
// access. A valid session yields the real user id; anything else yields
// the sentinel id 0, which never matches a post author. Never aborts.
func Viewer(sessions auth.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, token, ok := credentials(c)
		if ok && sessions.Validate(userID, token) {
			c.Set(UserIDKey, userID)
		} else {
			c.Set(UserIDKey, uint(0))
		}
		c.Next()
	}
}
