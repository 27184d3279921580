package store

import (
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for the store layer. Handlers map these to HTTP status
// codes; nothing below the handler boundary knows about HTTP.
var (
	// ErrNotFound: the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict: a uniqueness invariant was violated, e.g. registering an
	// already-taken login.
	ErrConflict = errors.New("entity already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The constraint itself is the source of truth
// for uniqueness invariants; application code only classifies the failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value")
}
