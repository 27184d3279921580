package file_store

import "io"

// AudioStore persists uploaded audio blobs. Implementations return an
// opaque key; posts carry the key as their audio reference and never care
// where the bytes actually live.
type AudioStore interface {
	// Store writes body under a freshly generated key. The original file
	// name is only consulted for its extension.
	Store(fileName string, body io.Reader) (key string, err error)
	// GetUrlFromKey resolves a stored key to a fetchable location.
	GetUrlFromKey(key string) string
	CleanUp()
}
