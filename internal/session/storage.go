package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// Storage persists the session keys. Save replaces the whole record in one
// write, so a reader never sees a mix of two sessions.
type Storage interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
}

// FileStorage keeps the session as a JSON document on disk.
type FileStorage struct {
	filePath string
}

// NewFileStorage creates the parent directory if needed. An empty path
// selects the default location under the user's config directory.
func NewFileStorage(filePath string) (*FileStorage, error) {
	if filePath == "" {
		var err error
		filePath, err = DefaultFilePath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileStorage{filePath: filePath}, nil
}

// DefaultFilePath returns ~/.config/banking-dashboard/session.json (or the
// platform equivalent).
func DefaultFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "banking-dashboard", "session.json"), nil
}

func (s *FileStorage) Path() string {
	return s.filePath
}

// Load reads the session file. A missing file is an empty session.
func (s *FileStorage) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return values, nil
}

// Save writes to a temp file in the same directory and renames it over the
// session file.
func (s *FileStorage) Save(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".session-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

// MemoryStorage is a process-local Storage, used by tests and by callers that
// do not want a session to outlive the process.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
	saves  int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values), nil
}

func (m *MemoryStorage) Save(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = maps.Clone(values)
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.saves++
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
