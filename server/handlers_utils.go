package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/server/middlewares"
	"github.com/nlysenko/podboard/store"
	. "github.com/nlysenko/podboard/utils/log"
	"github.com/pkg/errors"
)

// storeTimeout bounds every store and index call made on behalf of one
// request, so a stuck backend surfaces as an error instead of a hang.
const storeTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

// actingUser returns the authenticated user id placed into the context by
// the session middleware, or the sentinel 0 under the viewer middleware.
func actingUser(c *gin.Context) uint {
	return c.GetUint(middlewares.UserIDKey)
}

// pathID parses the numeric :id path parameter. Responds 400 and returns
// false on garbage: a non-numeric id is malformed input, not a missing
// entity.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// abortWithError maps domain errors to HTTP statuses: missing entities are
// 404, an unavailable search index is 502, anything else is a 500 that
// gets logged but not leaked.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	case errors.Is(err, search.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"msg": "search index unavailable"})
	default:
		Log.Error("internal error: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
