// Package client has one function per backend endpoint. Calls are not
// retried, cached or validated locally; errors come back from the gateway
// unchanged.
package client

import (
	"context"
	"net/url"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
)

// Transport is implemented by *gateway.Gateway.
type Transport interface {
	Fetch(ctx context.Context, endpoint string, req gateway.Request, out any) error
	FetchPublic(ctx context.Context, endpoint string, req gateway.Request, fallback string, out any) error
}

// Session is the part of the session store the clients touch.
type Session interface {
	SetSession(token, tokenType string, user domain.User) error
	Clear() error
	UserID() string
}

type Client struct {
	Auth          *AuthService
	Accounts      *AccountService
	Transactions  *TransactionService
	Profile       *ProfileService
	Payments      *PaymentService
	Notifications *NotificationService
}

func New(transport Transport, session Session, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("client")

	return &Client{
		Auth:          &AuthService{t: transport, session: session, log: logger},
		Accounts:      &AccountService{t: transport, log: logger},
		Transactions:  &TransactionService{t: transport, session: session, log: logger},
		Profile:       &ProfileService{t: transport, log: logger},
		Payments:      &PaymentService{t: transport, log: logger},
		Notifications: &NotificationService{t: transport, log: logger},
	}
}

// seg escapes one path segment.
func seg(s string) string {
	return url.PathEscape(s)
}
