package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/auth"
	"github.com/nlysenko/podboard/file_store"
	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/utils"
	"github.com/nlysenko/podboard/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPageSize = 5

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

type fixture struct {
	db     *gorm.DB
	index  *search.FakeIndex
	audio  *file_store.FakeAudioStore
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, _ := utils.CreateTempDB(t)
	index := search.NewFakeIndex()
	audio := &file_store.FakeAudioStore{}
	backend := NewBackend(db, index, auth.NewTokenRegistry(), audio, testPageSize)
	return &fixture{
		db:     db,
		index:  index,
		audio:  audio,
		router: backend.Router(),
	}
}

func (f *fixture) do(method, path string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return f.do(method, path, bytes.NewReader(body), "application/json", cookies)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}

// registerUser registers a fresh account through the API and returns its id
// and session cookies, the way a browser client would hold them.
func registerUser(t *testing.T, f *fixture, login string) (uint, []*http.Cookie) {
	t.Helper()
	w := f.doJSON("POST", "/api/register", gin.H{
		"login":    login,
		"pwd_hash": utils.Sha256Hex("pwd_" + login),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.NotEmpty(t, body["session_token"])
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return uint(body["user_id"].(float64)), cookies
}

// addPost publishes a post through the multipart endpoint and returns its
// id.
func addPost(t *testing.T, f *fixture, cookies []*http.Cookie, title string) uint {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	meta, _ := json.Marshal(gin.H{
		"title":             title,
		"short_description": "short " + title,
		"long_description":  "long " + title,
	})
	require.NoError(t, mw.WriteField("data", string(meta)))
	part, err := mw.CreateFormFile("file", "test_podcast.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really audio"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := f.do("POST", "/api/post", &buf, mw.FormDataContentType(), cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "OK", body["status"])
	return uint(body["post_id"].(float64))
}
