package client

import (
	"context"
	"net/http"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
)

type ProfileService struct {
	t   Transport
	log *log.Logger
}

func (s *ProfileService) Me(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.t.Fetch(ctx, "/profile/v1/me", gateway.Request{}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) UpdateMe(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	var p domain.Profile
	err := s.t.Fetch(ctx, "/profile/v1/me", gateway.Request{Method: http.MethodPut, Body: update}, &p)
	if err != nil {
		return nil, err
	}
	s.log.Info("profile updated", "user", p.Username)
	return &p, nil
}

// ByID fetches another user's profile. Admin only.
func (s *ProfileService) ByID(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := s.t.Fetch(ctx, "/profile/v1/"+seg(userID), gateway.Request{Pattern: "/profile/v1/{id}"}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
