package views

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/gateway"
	"banking-dashboard/internal/guard"
)

func TestLoginRoutesByRole(t *testing.T) {
	tests := []struct {
		name  string
		roles domain.RoleSet
		want  string
	}{
		{"user", domain.NewRoleSet(domain.RoleUser), guard.RouteDashboard},
		{"admin", domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin), guard.RouteAdminDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.prompt.menus = []string{"signin"}
			h.prompt.logins = []forms.Credentials{{Username: "testuser", Password: "password123"}}
			h.auth.resp = &domain.AuthResponse{Token: "t", Username: "testuser", Roles: tt.roles}

			next, err := NewLogin(h.deps()).Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if next != tt.want {
				t.Errorf("next = %q, want %q", next, tt.want)
			}
			if n := h.last(t); n.Severity != Success || n.Message != "Login successful! Redirecting..." {
				t.Errorf("notice = %+v", n)
			}
		})
	}
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t)
	h.prompt.menus = []string{"signin"}
	h.prompt.logins = []forms.Credentials{{Username: "testuser", Password: "123"}}

	next, err := NewLogin(h.deps()).Run(context.Background())
	if err != nil || next != guard.RouteLogin {
		t.Fatalf("Run = %q, %v", next, err)
	}
	if h.auth.signIns != 0 {
		t.Errorf("SignIn called %d times", h.auth.signIns)
	}
	if n := h.last(t); n.Severity != Error || n.Message != "Password must be at least 6 characters" {
		t.Errorf("notice = %+v", n)
	}
}

func TestLoginFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &gateway.APIError{Status: 401, Message: "Invalid username or password"}, "Invalid username or password"},
		{"no message", &gateway.APIError{Status: 500}, loginFailed},
		{"transport", fmt.Errorf("%w: POST /auth/v1/signin: connection refused", gateway.ErrTransport), loginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.prompt.menus = []string{"signin"}
			h.prompt.logins = []forms.Credentials{{Username: "testuser", Password: "wrongpass"}}
			h.auth.err = tt.err

			next, err := NewLogin(h.deps()).Run(context.Background())
			if err != nil || next != guard.RouteLogin {
				t.Fatalf("Run = %q, %v", next, err)
			}
			if n := h.last(t); n.Severity != Error || n.Message != tt.want {
				t.Errorf("notice = %+v, want %q", n, tt.want)
			}
		})
	}
}

func TestLoginMenu(t *testing.T) {
	h := newHarness(t)
	h.prompt.menus = []string{"signup"}
	if next, _ := NewLogin(h.deps()).Run(context.Background()); next != guard.RouteSignup {
		t.Errorf("next = %q", next)
	}

	h.prompt.menus = []string{"quit"}
	if _, err := NewLogin(h.deps()).Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Errorf("err = %v, want ErrQuit", err)
	}

	// escape on the menu leaves the application
	if _, err := NewLogin(h.deps()).Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Errorf("err = %v, want ErrQuit", err)
	}
}

func TestSignup(t *testing.T) {
	valid := forms.Registration{Username: "alice", Password: "Secret123", ConfirmPassword: "Secret123", TermsAccepted: true}

	t.Run("success", func(t *testing.T) {
		h := newHarness(t)
		h.prompt.signups = []forms.Registration{valid}
		next, err := NewSignup(h.deps()).Run(context.Background())
		if err != nil || next != guard.RouteLogin {
			t.Fatalf("Run = %q, %v", next, err)
		}
		if len(h.auth.signUps) != 1 || h.auth.signUps[0] != "alice" {
			t.Errorf("signUps = %v", h.auth.signUps)
		}
		if n := h.last(t); n.Message != "Registration successful! Redirecting to login..." {
			t.Errorf("notice = %+v", n)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		edits := map[string]func(r *forms.Registration){
			"short":    func(r *forms.Registration) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" },
			"no mix":   func(r *forms.Registration) { r.Password, r.ConfirmPassword = "alllower1", "alllower1" },
			"mismatch": func(r *forms.Registration) { r.ConfirmPassword = "Secret124" },
			"terms":    func(r *forms.Registration) { r.TermsAccepted = false },
		}
		for name, edit := range edits {
			h := newHarness(t)
			bad := valid
			edit(&bad)
			h.prompt.signups = []forms.Registration{bad}
			next, _ := NewSignup(h.deps()).Run(context.Background())
			if next != guard.RouteSignup {
				t.Errorf("%s: next = %q", name, next)
			}
			if len(h.auth.signUps) != 0 {
				t.Errorf("%s: validation failure reached the backend", name)
			}
		}
	})

	t.Run("backend error", func(t *testing.T) {
		h := newHarness(t)
		h.prompt.signups = []forms.Registration{valid}
		h.auth.err = &gateway.APIError{Status: 400, Message: "Error: Username is already taken!"}
		next, _ := NewSignup(h.deps()).Run(context.Background())
		if next != guard.RouteSignup {
			t.Errorf("next = %q", next)
		}
		if n := h.last(t); n.Message != "Error: Username is already taken!" {
			t.Errorf("notice = %+v", n)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		h := newHarness(t)
		if next, _ := NewSignup(h.deps()).Run(context.Background()); next != guard.RouteLogin {
			t.Errorf("next = %q", next)
		}
	})
}
