package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/search"
)

// pageParam parses the optional 1-based :page path parameter, defaulting
// to the first page when omitted.
func pageParam(c *gin.Context) (int, bool) {
	raw := c.Param("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid page number"})
		return 0, false
	}
	return page, true
}

// Feed serves the reverse-chronological feed. Anonymous viewers are
// allowed and see all posts; authenticated viewers never see their own.
func (b *Backend) Feed(c *gin.Context) {
	pageNum, ok := pageParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := b.engine.Feed(ctx, actingUser(c), pageNum)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type searchInput struct {
	Query string `json:"query" binding:"required"`
}

// SearchPosts serves the relevance-ranked search feed with the same
// pagination contract as the chronological feed.
func (b *Backend) SearchPosts(c *gin.Context) {
	pageNum, ok := pageParam(c)
	if !ok {
		return
	}
	var input searchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "query is required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := b.engine.Search(ctx, actingUser(c), input.Query, pageNum)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SyncIndex is the operator endpoint repairing search-index drift: it
// re-indexes every post wholesale and reports sizes before and after.
func (b *Backend) SyncIndex(c *gin.Context) {
	// Deliberately no per-call timeout: the resync is O(total posts) and
	// runs under operator control.
	report, err := search.SyncAll(c.Request.Context(), b.db, b.index)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "OK",
		"es_size_old":   report.EsSizeOld,
		"es_size_new":   report.EsSizeNew,
		"postgres_size": report.PostgresSize,
	})
}

// Config exposes the client-relevant knobs, currently just the page size.
func (b *Backend) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page_size": b.engine.PageSize()})
}
