package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/pkg/errors"
)

// tokenBytes is the entropy of an issued session token. Tokens are
// hex-encoded, so the wire form is twice as long.
const tokenBytes = 16

// Registry maps a user id to the user's single active session token.
// Implementations must be safe for concurrent use by request handlers.
//
// Tokens live for the registry's lifetime only: a process restart logs
// everyone out, which is the intended session model.
type Registry interface {
	// Issue generates a fresh token for the user, overwriting any prior one.
	// A login elsewhere therefore invalidates the previous session.
	Issue(userID uint) (string, error)
	// Validate reports whether the presented (userID, token) pair exactly
	// matches the current registry entry. A missing entry and a wrong token
	// are indistinguishable to the caller.
	Validate(userID uint, token string) bool
	// Revoke removes the user's session. Validation fails afterwards.
	Revoke(userID uint)
}

// TokenRegistry is the in-memory Registry used by the server. All internal
// state is guarded by mu; the critical sections are tiny so a single lock is
// enough.
type TokenRegistry struct {
	mu     sync.RWMutex
	tokens map[uint]string
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		tokens: make(map[uint]string),
	}
}

func (r *TokenRegistry) Issue(userID uint) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "fail to generate session token")
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = token

	return token, nil
}

func (r *TokenRegistry) Validate(userID uint, token string) bool {
	if token == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens[userID] == token
}

func (r *TokenRegistry) Revoke(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
}
