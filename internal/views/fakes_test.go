package views

import (
	"bytes"
	"context"
	"io"
	"testing"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// script answers prompts in order. An exhausted queue behaves like the user
// pressing escape.
type script struct {
	logins  []forms.Credentials
	signups []forms.Registration
	menus   []string
	texts   []string
	txs     []forms.TransactionInput
	drafts  []forms.AccountDraft

	menuTitles []string
	offered    [][]domain.Account
	draftsSeen []forms.AccountDraft
	owners     []forms.Owner
}

func pop[T any](q *[]T) (T, error) {
	var zero T
	if len(*q) == 0 {
		return zero, forms.ErrCancelled
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, nil
}

func (s *script) Login(ctx context.Context, _ forms.Credentials) (forms.Credentials, error) {
	return pop(&s.logins)
}

func (s *script) Signup(ctx context.Context, _ forms.Registration) (forms.Registration, error) {
	return pop(&s.signups)
}

func (s *script) Menu(ctx context.Context, title string, _ []forms.MenuItem) (string, error) {
	s.menuTitles = append(s.menuTitles, title)
	return pop(&s.menus)
}

func (s *script) Text(ctx context.Context, title, initial string) (string, error) {
	return pop(&s.texts)
}

func (s *script) Transaction(ctx context.Context, kind forms.TransactionKind, accounts []domain.Account) (forms.TransactionInput, error) {
	s.offered = append(s.offered, accounts)
	in, err := pop(&s.txs)
	if err == nil && in.Kind == "" {
		in.Kind = kind
	}
	return in, err
}

func (s *script) Account(ctx context.Context, title string, draft forms.AccountDraft, owners []forms.Owner) (forms.AccountDraft, error) {
	s.draftsSeen = append(s.draftsSeen, draft)
	s.owners = owners
	return pop(&s.drafts)
}

type fakeSession struct {
	user  domain.User
	authd bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authd }
func (f *fakeSession) UserID() string { return f.user.IDString() }
func (f *fakeSession) User() (domain.User, bool) {
	return f.user, f.authd
}

type fakeAuth struct {
	resp      *domain.AuthResponse
	err       error
	signIns   int
	signUps   []string
	signedOut bool
	session   *fakeSession
}

func (f *fakeAuth) SignIn(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	f.signIns++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, username, password string) (*domain.MessageResponse, error) {
	f.signUps = append(f.signUps, username)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MessageResponse{Message: "User registered successfully!"}, nil
}

func (f *fakeAuth) SignOut() error {
	f.signedOut = true
	if f.session != nil {
		f.session.authd = false
	}
	return nil
}

type fakeAccounts struct {
	accounts []domain.Account
	err      error
	calls    []string
}

func (f *fakeAccounts) ForUser(ctx context.Context, profileID string) ([]domain.Account, error) {
	f.calls = append(f.calls, profileID)
	return f.accounts, f.err
}

type call struct {
	kind        string
	source      string
	destination string
	amount      string
	description string
}

type fakeTransactions struct {
	list  []domain.Transaction
	err   error
	txErr error
	calls []call
	// onCall runs before a deposit, withdraw or transfer returns.
	onCall func()
}

func (f *fakeTransactions) ForUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Transaction(nil), f.list...), nil
}

func (f *fakeTransactions) record(c call) (*domain.TransactionResult, error) {
	f.calls = append(f.calls, c)
	if f.onCall != nil {
		f.onCall()
	}
	if f.txErr != nil {
		return nil, f.txErr
	}
	return &domain.TransactionResult{Reference: "TXN-0001", Status: domain.TxCompleted}, nil
}

func (f *fakeTransactions) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return f.record(call{kind: "deposit", source: accountID, amount: amount.String(), description: description})
}

func (f *fakeTransactions) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return f.record(call{kind: "withdraw", source: accountID, amount: amount.String(), description: description})
}

func (f *fakeTransactions) Transfer(ctx context.Context, src, dst string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return f.record(call{kind: "transfer", source: src, destination: dst, amount: amount.String(), description: description})
}

type harness struct {
	prompt  *script
	session *fakeSession
	auth    *fakeAuth
	accts   *fakeAccounts
	txs     *fakeTransactions
	notify  *Notifier
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		prompt:  &script{},
		session: &fakeSession{authd: true, user: domain.User{ID: 1, Username: "testuser", Roles: domain.NewRoleSet(domain.RoleUser)}},
		accts:   &fakeAccounts{},
		txs:     &fakeTransactions{},
		out:     &bytes.Buffer{},
	}
	h.auth = &fakeAuth{session: h.session}
	h.notify = NewNotifier(io.Discard, quietLogger())
	return h
}

func (h *harness) deps() Deps {
	return Deps{
		Session:      h.session,
		Auth:         h.auth,
		Accounts:     h.accts,
		Transactions: h.txs,
		Prompter:     h.prompt,
		Notifier:     h.notify,
		Out:          h.out,
		Logger:       quietLogger(),
	}
}

func (h *harness) last(t *testing.T) Notice {
	t.Helper()
	n, ok := h.notify.Last()
	if !ok {
		t.Fatal("no notice shown")
	}
	return n
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
