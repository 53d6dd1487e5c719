package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the bearer token between runs. It is this module's
// analogue of the browser's localStorage slot.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath places the token file under the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	return filepath.Join(dir, "saath", "token"), nil
}

func (f *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}

	return nil
}

func (f *FileTokenStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}

	return nil
}

// MemoryTokenStore holds the token in memory only; used by tests and by
// embedders that manage persistence themselves.
type MemoryTokenStore struct {
	token string
}

func (m *MemoryTokenStore) Load() (string, error) {
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.token = ""
	return nil
}
