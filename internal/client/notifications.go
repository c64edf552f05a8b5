package client

import (
	"context"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
)

type NotificationService struct {
	t   Transport
	log *log.Logger
}

// All lists every notification. Admin only.
func (s *NotificationService) All(ctx context.Context) ([]domain.Notification, error) {
	return s.list(ctx, "/notifications/v1", "/notifications/v1")
}

func (s *NotificationService) ForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.list(ctx, "/notifications/v1/user/"+seg(userID), "/notifications/v1/user/{userId}")
}

func (s *NotificationService) ForTransaction(ctx context.Context, reference string) ([]domain.Notification, error) {
	return s.list(ctx, "/notifications/v1/transaction/"+seg(reference), "/notifications/v1/transaction/{reference}")
}

func (s *NotificationService) list(ctx context.Context, endpoint, pattern string) ([]domain.Notification, error) {
	var out []domain.Notification
	if err := s.t.Fetch(ctx, endpoint, gateway.Request{Pattern: pattern}, &out); err != nil {
		return nil, err
	}
	s.log.Debug("fetched notifications", "endpoint", endpoint, "count", len(out))
	return out, nil
}
