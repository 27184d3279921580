package file_store

import (
	"io"
	"io/ioutil"
)

// FakeAudioStore discards blob bytes and remembers what was stored. For
// tests only.
type FakeAudioStore struct {
	StoredNames []string
}

func (f *FakeAudioStore) Store(fileName string, body io.Reader) (string, error) {
	io.Copy(ioutil.Discard, body)
	f.StoredNames = append(f.StoredNames, fileName)
	return "fake-" + fileName, nil
}

func (f *FakeAudioStore) GetUrlFromKey(key string) string {
	return key
}

func (f *FakeAudioStore) CleanUp() {}
