package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/store"
	"github.com/pkg/errors"
)

// credentialsInput is the shared request body of register and login. The
// password never travels in plaintext; the client boundary sends its
// SHA-256 hex digest.
type credentialsInput struct {
	Login   string `json:"login" binding:"required"`
	PwdHash string `json:"pwd_hash" binding:"required"`
}

func setSessionCookies(c *gin.Context, userID uint, token string) {
	c.SetCookie("user_id", fmt.Sprint(userID), 0, "/", "", false, false)
	c.SetCookie("session_token", token, 0, "/", "", false, false)
}

func clearSessionCookies(c *gin.Context) {
	c.SetCookie("user_id", "", -1, "/", "", false, false)
	c.SetCookie("session_token", "", -1, "/", "", false, false)
}

// Register creates an account and opens a session in one step. A taken
// login is a 409; the login string is matched case-sensitively.
func (b *Backend) Register(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "login and pwd_hash are required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	userID, err := store.CreateUser(ctx, b.db, input.Login, input.PwdHash)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"msg": "login already registered"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := b.sessions.Issue(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	setSessionCookies(c, userID, token)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "session_token": token})
}

// Login authenticates by exact (login, pwd_hash) match. No match is a 404;
// the response never says which half was wrong. Issuing a fresh token
// implicitly logs out any session opened elsewhere.
func (b *Backend) Login(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "login and pwd_hash are required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	userID, err := store.AuthenticateUser(ctx, b.db, input.Login, input.PwdHash)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := b.sessions.Issue(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	setSessionCookies(c, userID, token)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "session_token": token})
}

// Logout revokes the current session. Reaching here requires passing the
// session middleware, so logging out while not authenticated is a 401, not
// an idempotent success. That asymmetry is a deliberate contract.
func (b *Backend) Logout(c *gin.Context) {
	b.sessions.Revoke(actingUser(c))
	clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
