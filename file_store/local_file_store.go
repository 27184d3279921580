package file_store

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalAudioStore keeps audio blobs in a directory on local disk. This is
// the default store outside of production.
type LocalAudioStore struct {
	dir string
}

func NewLocalAudioStore(dir string) (*LocalAudioStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "fail to create audio dir")
	}
	return &LocalAudioStore{dir: dir}, nil
}

func (s *LocalAudioStore) Store(fileName string, body io.Reader) (string, error) {
	key := generateKey(fileName)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", errors.Wrap(err, "fail to create audio file")
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		// Don't leave a truncated blob behind.
		os.Remove(f.Name())
		return "", errors.Wrap(err, "fail to write audio file")
	}
	return key, nil
}

func (s *LocalAudioStore) GetUrlFromKey(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *LocalAudioStore) CleanUp() {
	os.RemoveAll(s.dir)
}

// generateKey names a blob by a fresh uuid plus the upload's extension, so
// two users uploading "episode.mp3" never collide.
func generateKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return uuid.New().String() + ext
}
