package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the well-known storage key for the credential token.
const TokenKey = "authToken"

// TokenStore persists the opaque credential token between process runs. The
// token is the only state the client persists.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// FileTokenStore keeps the token in a file under a directory, one file per
// storage key.
type FileTokenStore struct {
	dir string
}

func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

func (s *FileTokenStore) path() string {
	return filepath.Join(s.dir, TokenKey)
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path(), []byte(token), 0o600)
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoStoredToken
		}
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoStoredToken
	}
	return token, nil
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryTokenStore holds the token in memory. Used in tests.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.token == "" {
		return "", ErrNoStoredToken
	}
	return s.token, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
