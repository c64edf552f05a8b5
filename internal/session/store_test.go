package session

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"banking-dashboard/internal/domain"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testUser() domain.User {
	return domain.User{
		ID:       7,
		Username: "testadmin",
		Email:    "testadmin@example.com",
		Roles:    domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin),
	}
}

func TestSetSessionSingleWrite(t *testing.T) {
	mem := NewMemoryStorage()
	s, err := New(mem, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SetSession("tok", "", testUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if got := mem.Saves(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}

	values, _ := mem.Load()
	for _, key := range []string{KeyToken, KeyTokenType, KeyUser, KeyUserID} {
		if values[key] == "" {
			t.Errorf("key %q not persisted", key)
		}
	}

	if s.Token() != "tok" || s.TokenType() != "Bearer" || s.UserID() != "7" {
		t.Errorf("unexpected state: %q %q %q", s.Token(), s.TokenType(), s.UserID())
	}
	if !s.IsAuthenticated() || !s.HasRole(domain.RoleAdmin) {
		t.Error("expected an authenticated admin session")
	}
}

func TestSetSessionRejectsEmptyToken(t *testing.T) {
	s, _ := New(NewMemoryStorage(), quietLogger())
	if err := s.SetSession("", "Bearer", testUser()); err != ErrEmptyToken {
		t.Fatalf("err = %v, want ErrEmptyToken", err)
	}
	if s.IsAuthenticated() {
		t.Error("store should stay empty")
	}
}

func TestClear(t *testing.T) {
	s, _ := New(NewMemoryStorage(), quietLogger())
	_ = s.SetSession("tok", "Bearer", testUser())

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsAuthenticated() || s.UserID() != "" || len(s.Roles()) != 0 {
		t.Error("session not cleared")
	}
	if _, ok := s.User(); ok {
		t.Error("user still present after Clear")
	}
	if s.TokenType() != DefaultTokenType {
		t.Errorf("TokenType after Clear = %q", s.TokenType())
	}
}

func TestRolesReturnsCopy(t *testing.T) {
	s, _ := New(NewMemoryStorage(), quietLogger())
	_ = s.SetSession("tok", "Bearer", testUser())

	roles := s.Roles()
	delete(roles, domain.RoleAdmin)

	if !s.HasRole(domain.RoleAdmin) {
		t.Error("mutating the returned roles changed the store")
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	s, _ := New(fs, quietLogger())
	if err := s.SetSession("tok", "Bearer", testUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	reloaded, err := New(fs, quietLogger())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	u, ok := reloaded.User()
	if !ok || u.Username != "testadmin" || !u.IsAdmin() {
		t.Errorf("reloaded user = %+v, %v", u, ok)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file should be removed, stat err = %v", err)
	}
}

func TestPartialSessionLoadsEmpty(t *testing.T) {
	mem := NewMemoryStorage()
	_ = mem.Save(map[string]string{KeyToken: "orphan", KeyTokenType: "Bearer"})

	s, err := New(mem, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("a token without a user must not count as a session")
	}
}

func TestCorruptFileFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, _ := NewFileStorage(path)
	if _, err := New(fs, quietLogger()); err == nil {
		t.Error("expected an error for a corrupt session file")
	}
}

// A 401 from a request issued under an old token clears whatever session is
// current when it lands, including one written after the request started.
func TestStaleClearWinsOverNewerSession(t *testing.T) {
	s, _ := New(NewMemoryStorage(), quietLogger())
	_ = s.SetSession("old", "Bearer", testUser())

	_ = s.SetSession("new", "Bearer", testUser())
	_ = s.Clear()

	if s.IsAuthenticated() {
		t.Error("expected last write (clear) to win")
	}
}
