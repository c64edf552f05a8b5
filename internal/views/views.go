// Package views implements the dashboard screens. Each view runs until the
// user picks another route, reads input through a forms.Prompter and writes
// its tables and notices to a terminal.
package views

import (
	"context"
	"errors"
	"io"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// ErrQuit is returned by a view when the user leaves the application.
var ErrQuit = errors.New("quit")

// View is one screen. Run returns the route to show next.
type View interface {
	Run(ctx context.Context) (next string, err error)
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context) (string, error)

func (f ViewFunc) Run(ctx context.Context) (string, error) {
	return f(ctx)
}

type Session interface {
	IsAuthenticated() bool
	UserID() string
	User() (domain.User, bool)
}

// Auth is implemented by *client.AuthService.
type Auth interface {
	SignIn(ctx context.Context, username, password string) (*domain.AuthResponse, error)
	SignUp(ctx context.Context, username, password string) (*domain.MessageResponse, error)
	SignOut() error
}

// Accounts is implemented by *client.AccountService.
type Accounts interface {
	ForUser(ctx context.Context, profileID string) ([]domain.Account, error)
}

// Transactions is implemented by *client.TransactionService.
type Transactions interface {
	ForUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error)
	Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error)
}

// Deps are shared by all views.
type Deps struct {
	Session      Session
	Auth         Auth
	Accounts     Accounts
	Transactions Transactions
	Prompter     forms.Prompter
	Notifier     *Notifier
	Out          io.Writer
	Logger       *log.Logger
}

func (d Deps) logger(prefix string) *log.Logger {
	if d.Logger == nil {
		return log.Default().WithPrefix(prefix)
	}
	return d.Logger.WithPrefix(prefix)
}

// errText picks the message shown to the user for a failed call. Backend
// messages are shown as-is; anything without one gets the fallback.
func errText(err error, fallback string) string {
	var apiErr *gateway.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
	case errors.Is(err, gateway.ErrTransport), errors.Is(err, gateway.ErrDecode):
	case err != nil && err.Error() != "":
		return err.Error()
	}
	return fallback
}

func cancelled(err error) bool {
	return errors.Is(err, forms.ErrCancelled)
}
