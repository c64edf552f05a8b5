// Package session holds the client-side authentication state: token, token
// type and the signed-in user with their roles.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"

	"banking-dashboard/internal/domain"

	"github.com/charmbracelet/log"
)

// Well-known storage keys. Anything with access to the storage can read them.
const (
	KeyToken     = "accessToken"
	KeyTokenType = "tokenType"
	KeyUser      = "user"
	KeyUserID    = "userId"
)

const DefaultTokenType = "Bearer"

var ErrEmptyToken = errors.New("session: token is empty")

// Store is the single owner of session state. Each write replaces the whole
// record; concurrent writers are last-write-wins.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	values  map[string]string
	user    *domain.User
	log     *log.Logger
}

// New loads any persisted session from storage.
func New(storage Storage, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	s := &Store{
		storage: storage,
		log:     logger.WithPrefix("session"),
	}

	values, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.values, s.user = s.restore(values)

	return s, nil
}

// restore drops a persisted session that has a token but no user, since the
// user and roles must come from the same sign-in as the token.
func (s *Store) restore(values map[string]string) (map[string]string, *domain.User) {
	if values[KeyToken] == "" {
		return map[string]string{}, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(values[KeyUser]), &user); err != nil {
		s.log.Warn("discarding partial session", "err", err)
		return map[string]string{}, nil
	}

	return values, &user
}

// SetSession replaces the current session in a single storage write.
func (s *Store) SetSession(token, tokenType string, user domain.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	if tokenType == "" {
		tokenType = DefaultTokenType
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	values := map[string]string{
		KeyToken:     token,
		KeyTokenType: tokenType,
		KeyUser:      string(encoded),
	}
	if id := user.IDString(); id != "" {
		values[KeyUserID] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(values); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.values = values
	s.user = &user

	s.log.Debug("session stored", "user", user.Username, "roles", user.Roles.Sorted())
	return nil
}

// Clear removes every session key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(map[string]string{}); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.values = map[string]string{}
	s.user = nil

	s.log.Debug("session cleared")
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[KeyToken]
}

func (s *Store) TokenType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.values[KeyTokenType]; t != "" {
		return t
	}
	return DefaultTokenType
}

// Credentials returns the token type and token from one consistent snapshot.
func (s *Store) Credentials() (tokenType, token string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokenType = s.values[KeyTokenType]
	if tokenType == "" {
		tokenType = DefaultTokenType
	}
	return tokenType, s.values[KeyToken]
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[KeyUserID]
}

// User returns a copy of the signed-in user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	u := *s.user
	u.Roles = maps.Clone(s.user.Roles)
	return u, true
}

// Roles returns a copy of the stored roles; empty when signed out.
func (s *Store) Roles() domain.RoleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.RoleSet{}
	}
	return maps.Clone(s.user.Roles)
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) HasRole(role domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Roles.Has(role)
}
