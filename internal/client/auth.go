package client

import (
	"context"
	"fmt"
	"net/http"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
)

const (
	signInFallback = "Authentication failed"
	signUpFallback = "Registration failed"
)

type AuthService struct {
	t       Transport
	session Session
	log     *log.Logger
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a token. When the response carries a
// token the whole session is stored before SignIn returns.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	req := gateway.Request{
		Method: http.MethodPost,
		Body:   signInRequest{Username: username, Password: password},
	}
	if err := s.t.FetchPublic(ctx, "/auth/v1/signin", req, signInFallback, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := s.session.SetSession(resp.Token, resp.Type, resp.User()); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	s.log.Info("signed in", "user", resp.Username, "roles", resp.Roles.Sorted())
	return &resp, nil
}

// NewSignupRequest fills in the defaults the backend expects from the
// dashboard's minimal signup form.
func NewSignupRequest(username, password string) domain.SignupRequest {
	return domain.SignupRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  password,
		FirstName: "User",
		LastName:  "Account",
		Roles:     []string{"user"},
	}
}

func (s *AuthService) SignUp(ctx context.Context, username, password string) (*domain.MessageResponse, error) {
	var resp domain.MessageResponse
	req := gateway.Request{
		Method: http.MethodPost,
		Body:   NewSignupRequest(username, password),
	}
	if err := s.t.FetchPublic(ctx, "/auth/v1/signup", req, signUpFallback, &resp); err != nil {
		return nil, err
	}

	s.log.Info("registered user", "user", username)
	return &resp, nil
}

// SignOut clears the local session. The backend keeps no session state.
func (s *AuthService) SignOut() error {
	if err := s.session.Clear(); err != nil {
		return err
	}
	s.log.Info("signed out")
	return nil
}
