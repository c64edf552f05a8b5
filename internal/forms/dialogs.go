package forms

import (
	"context"
	"errors"
	"strings"

	"banking-dashboard/internal/domain"

	"github.com/shopspring/decimal"
)

// Prompter collects input for the dashboard's dialogs. The terminal
// implementation is HuhPrompter; tests script one.
type Prompter interface {
	Login(ctx context.Context, initial Credentials) (Credentials, error)
	Signup(ctx context.Context, initial Registration) (Registration, error)
	Menu(ctx context.Context, title string, items []MenuItem) (string, error)
	Text(ctx context.Context, title, initial string) (string, error)
	Transaction(ctx context.Context, kind TransactionKind, accounts []domain.Account) (TransactionInput, error)
	Account(ctx context.Context, title string, draft AccountDraft, owners []Owner) (AccountDraft, error)
}

// ErrCancelled is returned by a Prompter when the user backs out of a dialog.
var ErrCancelled = errors.New("cancelled")

type MenuItem struct {
	Key   string
	Label string
}

type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
	KindTransfer TransactionKind = "transfer"
	KindPayment  TransactionKind = "payment"
)

var TransactionKinds = []TransactionKind{KindDeposit, KindWithdraw, KindTransfer, KindPayment}

// Label is the kind with its first letter upper-cased.
func (k TransactionKind) Label() string {
	if k == "" {
		return ""
	}
	b := []byte(k)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

type TransactionInput struct {
	Kind          TransactionKind
	AccountNumber string
	Amount        string
	Description   string
}

var ErrInvalidAmount = errors.New("Please enter a valid amount")

// ParseAmount accepts a positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AccountDraft is the admin add/edit account form.
type AccountDraft struct {
	AccountNumber string
	Type          domain.AccountType
	Balance       string
	Currency      string
	Status        domain.AccountStatus
	UserID        string
}

// NewAccountDraft has the defaults of the add-account dialog.
func NewAccountDraft() AccountDraft {
	return AccountDraft{
		Type:     domain.AccountChecking,
		Balance:  "0",
		Currency: domain.DefaultCurrency,
		Status:   domain.AccountActive,
	}
}

// Owner is a selectable account holder in the admin dialog.
type Owner struct {
	ID   int64
	Name string
}
