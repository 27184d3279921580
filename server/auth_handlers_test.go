package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/utils"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesSession(t *testing.T) {
	f := newFixture(t)

	userID, cookies := registerUser(t, f, "mykyta")
	require.NotZero(t, userID)

	// The session from registration works immediately.
	w := f.doJSON("POST", "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateLoginConflicts(t *testing.T) {
	f := newFixture(t)

	firstID, _ := registerUser(t, f, "taken")

	w := f.doJSON("POST", "/api/register", gin.H{
		"login":    "taken",
		"pwd_hash": utils.Sha256Hex("other"),
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	// The original account still logs in with a stable id.
	w = f.doJSON("POST", "/api/login", gin.H{
		"login":    "taken",
		"pwd_hash": utils.Sha256Hex("pwd_taken"),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.EqualValues(t, firstID, body["user_id"].(float64))
}

func TestRegisterMalformedBody(t *testing.T) {
	f := newFixture(t)

	w := f.doJSON("POST", "/api/register", gin.H{"login": "half"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRequiresExactMatch(t *testing.T) {
	f := newFixture(t)

	registerUser(t, f, "sergei")

	w := f.doJSON("POST", "/api/login", gin.H{
		"login":    "sergei",
		"pwd_hash": utils.Sha256Hex("wrong"),
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = f.doJSON("POST", "/api/login", gin.H{
		"login":    "nobody",
		"pwd_hash": utils.Sha256Hex("pwd_sergei"),
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginInvalidatesPriorSession(t *testing.T) {
	f := newFixture(t)

	_, oldCookies := registerUser(t, f, "roamer")

	// Logging in elsewhere overwrites the token; the old one stops working.
	w := f.doJSON("POST", "/api/login", gin.H{
		"login":    "roamer",
		"pwd_hash": utils.Sha256Hex("pwd_roamer"),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.doJSON("POST", "/api/logout", nil, oldCookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutSessionIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	// Not idempotent-success on purpose: logout demands a session.
	w := f.doJSON("POST", "/api/logout", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A second logout on the same cookies also fails: the token is gone.
	_, cookies := registerUser(t, f, "leaver")
	w = f.doJSON("POST", "/api/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.doJSON("POST", "/api/logout", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTamperedTokenFailsClosed(t *testing.T) {
	f := newFixture(t)

	_, cookies := registerUser(t, f, "victim")
	for _, cookie := range cookies {
		if cookie.Name == "session_token" {
			cookie.Value = "0000000000000000000000000000000000"
		}
	}
	w := f.doJSON("POST", "/api/logout", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
