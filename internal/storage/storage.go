// Package storage implements the object store backing valentine images:
// upload by key with overwrite control and public read URLs. Uploaded
// objects are never deleted; orphans are accepted.
package storage

import (
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrObjectExists is returned by Save when overwrite is disabled and an
// object with the same key is already stored.
var ErrObjectExists = errors.New("storage: object already exists")

// Store is the object-store contract used by the valentine workflows.
type Store interface {
	// Save writes the object under key. With overwrite disabled the write
	// fails with ErrObjectExists if the key is taken.
	Save(key string, r io.Reader, overwrite bool) error
	// Exists reports whether an object is stored under key.
	Exists(key string) (bool, error)
	// URL returns the public read URL for key.
	URL(key string) string
}

// LocalStore keeps objects as files in a single directory and serves them
// through the API's static file route.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the backing directory, for mounting as a static route.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(key string) string {
	// Keys are derived from client file names; keep them inside the store dir.
	return filepath.Join(s.dir, filepath.Base(key))
}

// Save implements Store.
func (s *LocalStore) Save(key string, r io.Reader, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(s.path(key), flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrObjectExists
		}
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}

// Exists implements Store.
func (s *LocalStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// URL implements Store.
func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/" + url.PathEscape(filepath.Base(key))
}

// EnsurePlaceholder stores the shared placeholder object if it is missing,
// so every valentine's file key stays resolvable.
func (s *LocalStore) EnsurePlaceholder(key string, data []byte) error {
	ok, err := s.Exists(key)
	if err != nil || ok {
		return err
	}
	return s.Save(key, strings.NewReader(string(data)), false)
}
