package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestFeedPaginationOverHTTP(t *testing.T) {
	f := newFixture(t)

	_, authorCookies := registerUser(t, f, "author")
	_, readerCookies := registerUser(t, f, "reader")
	for i := 0; i < 7; i++ {
		addPost(t, f, authorCookies, fmt.Sprintf("episode %d", i))
	}

	// An anonymous viewer sees everything, windowed to the page size.
	w := f.do("GET", "/api/feed", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.EqualValues(t, 2, body["pages_count"].(float64))
	firstPage := body["user_feed"].([]interface{})
	require.Len(t, firstPage, testPageSize)

	w = f.do("GET", "/api/feed/2", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.EqualValues(t, 2, body["pages_count"].(float64))
	secondPage := body["user_feed"].([]interface{})
	require.Len(t, secondPage, 2)

	// The two pages partition the feed without duplicates.
	seen := map[float64]bool{}
	for _, item := range append(firstPage, secondPage...) {
		id := item.(map[string]interface{})["id"].(float64)
		require.False(t, seen[id])
		seen[id] = true
	}

	// The author never sees their own posts.
	w = f.do("GET", "/api/feed", nil, "", authorCookies)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.EqualValues(t, 0, body["pages_count"].(float64))
	require.Empty(t, body["user_feed"])

	// Another user sees all seven, enriched with the author login.
	w = f.do("GET", "/api/feed", nil, "", readerCookies)
	body = decodeBody(t, w)
	require.EqualValues(t, 2, body["pages_count"].(float64))
	item := body["user_feed"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "author", item["author_login"])
}

func TestFeedInvalidPage(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/api/feed/0", nil, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do("GET", "/api/feed/garbage", nil, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPostsOverHTTP(t *testing.T) {
	f := newFixture(t)

	_, authorCookies := registerUser(t, f, "author")
	_, readerCookies := registerUser(t, f, "reader")
	addPost(t, f, authorCookies, "gopher talk")
	addPost(t, f, authorCookies, "jazz hour")

	w := f.doJSON("POST", "/api/search/posts/1", gin.H{"query": "gopher"}, readerCookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.EqualValues(t, 1, body["pages_count"].(float64))
	hits := body["user_feed"].([]interface{})
	require.Len(t, hits, 1)
	require.Equal(t, "gopher talk", hits[0].(map[string]interface{})["title"])

	// The author's own posts never come back to the author.
	w = f.doJSON("POST", "/api/search/posts/1", gin.H{"query": "gopher"}, authorCookies)
	body = decodeBody(t, w)
	require.EqualValues(t, 0, body["pages_count"].(float64))
	require.Empty(t, body["user_feed"])

	// No matches is an empty page, not an error.
	w = f.doJSON("POST", "/api/search/posts/1", gin.H{"query": "no such thing"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeBody(t, w)["user_feed"])

	// A missing query is malformed input.
	w = f.doJSON("POST", "/api/search/posts/1", gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchIndexDowntimeIsBadGateway(t *testing.T) {
	f := newFixture(t)

	f.index.Fail = true
	w := f.doJSON("POST", "/api/search/posts/1", gin.H{"query": "anything"}, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSyncRepairsIndexDrift(t *testing.T) {
	f := newFixture(t)

	_, cookies := registerUser(t, f, "author")
	firstID := addPost(t, f, cookies, "kept in sync")
	addPost(t, f, cookies, "drifted away")

	// Manufacture drift: one document vanishes from the index only.
	require.NoError(t, f.index.DeletePost(context.Background(), firstID))

	w := f.do("GET", "/api/sync/postgresql_to_elasticsearch", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "OK", body["status"])
	require.EqualValues(t, 1, body["es_size_old"].(float64))
	require.EqualValues(t, 2, body["es_size_new"].(float64))
	require.EqualValues(t, 2, body["postgres_size"].(float64))

	f.index.Fail = true
	w = f.do("GET", "/api/sync/postgresql_to_elasticsearch", nil, "", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestConfigAndHelp(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/api/config", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, testPageSize, decodeBody(t, w)["page_size"].(float64))

	for _, path := range []string{"/api", "/api/help"} {
		w = f.do("GET", path, nil, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.EqualValues(t, http.StatusOK, body["code"].(float64))
		require.NotEmpty(t, body["data"])
	}
}
