package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/guard"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

// TransferDestination is the fixed account every dashboard transfer is sent to.
const TransferDestination = "12345672"

var (
	ErrNotImplemented = errors.New("Transaction type not implemented yet")
	ErrNoAccount      = errors.New("Please select an active account")
)

var dashboardMenu = []forms.MenuItem{
	{Key: string(forms.KindDeposit), Label: "Deposit"},
	{Key: string(forms.KindWithdraw), Label: "Withdraw"},
	{Key: string(forms.KindTransfer), Label: "Transfer"},
	{Key: string(forms.KindPayment), Label: "Payment"},
	{Key: "search", Label: "Search transactions"},
	{Key: "refresh", Label: "Refresh"},
	{Key: "signout", Label: "Sign out"},
	{Key: "quit", Label: "Quit"},
}

// Dashboard is the signed-in user's accounts and transaction history.
type Dashboard struct {
	session  Session
	auth     Auth
	accounts Accounts
	txs      Transactions
	prompt   forms.Prompter
	notify   *Notifier
	out      io.Writer
	styles   styles
	log      *log.Logger
	now      func() time.Time

	Accounts     []domain.Account
	Transactions []domain.Transaction
	Search       string
	// TransactionsErr is shown in place of the history when loading failed.
	TransactionsErr string
}

func NewDashboard(d Deps) *Dashboard {
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	return &Dashboard{
		session:  d.Session,
		auth:     d.Auth,
		accounts: d.Accounts,
		txs:      d.Transactions,
		prompt:   d.Prompter,
		notify:   d.Notifier,
		out:      out,
		styles:   newStyles(out),
		log:      d.logger("dashboard"),
		now:      time.Now,
	}
}

func (v *Dashboard) Run(ctx context.Context) (string, error) {
	// Nothing from a previous visit survives, even when a load below fails.
	v.Accounts, v.Transactions = nil, nil
	v.Search, v.TransactionsErr = "", ""
	v.loadAccounts(ctx, true)
	v.loadTransactions(ctx)

	for {
		// A 401 during any call clears the session.
		if !v.session.IsAuthenticated() {
			return guard.RouteLogin, nil
		}
		v.render()

		choice, err := v.prompt.Menu(ctx, "What would you like to do?", dashboardMenu)
		if cancelled(err) {
			return "", ErrQuit
		}
		if err != nil {
			return "", err
		}

		switch choice {
		case string(forms.KindDeposit), string(forms.KindWithdraw), string(forms.KindTransfer), string(forms.KindPayment):
			v.transact(ctx, forms.TransactionKind(choice))
		case "search":
			term, err := v.prompt.Text(ctx, "Search transactions", v.Search)
			if err != nil && !cancelled(err) {
				return "", err
			}
			if err == nil {
				v.Search = term
			}
		case "refresh":
			v.loadAccounts(ctx, false)
			v.loadTransactions(ctx)
		case "signout":
			if err := v.auth.SignOut(); err != nil {
				v.log.Error("sign out failed", "err", err)
			}
			return guard.RouteLogin, nil
		case "quit":
			return "", ErrQuit
		}
	}
}

func (v *Dashboard) loadAccounts(ctx context.Context, announce bool) {
	userID := v.session.UserID()
	if userID == "" {
		v.notify.Error("User ID not found. Please login again.")
		return
	}

	accounts, err := v.accounts.ForUser(ctx, userID)
	if err != nil {
		v.log.Error("failed to fetch user accounts", "user", userID, "err", err)
		v.notify.Error(errText(err, "Failed to load accounts"))
		return
	}
	v.Accounts = accounts
	if announce {
		v.notify.Success(fmt.Sprintf("Successfully loaded %d account(s)", len(accounts)))
	}
}

func (v *Dashboard) loadTransactions(ctx context.Context) {
	v.TransactionsErr = ""
	userID := v.session.UserID()
	if userID == "" {
		v.TransactionsErr = "User not authenticated. Please login again."
		return
	}

	txs, err := v.txs.ForUser(ctx, userID)
	if err != nil {
		v.log.Error("failed to fetch transactions", "user", userID, "err", err)
		v.TransactionsErr = "Failed to load transactions. Please try again."
		return
	}
	SortNewestFirst(txs)
	v.Transactions = txs
}

func (v *Dashboard) transact(ctx context.Context, kind forms.TransactionKind) {
	active := ActiveAccounts(v.Accounts)
	if len(active) == 0 {
		v.notify.Error("No active accounts available")
		return
	}
	in, err := v.prompt.Transaction(ctx, kind, active)
	if cancelled(err) {
		return
	}
	if err != nil {
		v.notify.Error(errText(err, "Transaction failed"))
		return
	}

	res, err := v.submit(ctx, in, active)
	if err != nil {
		v.log.Warn("transaction failed", "kind", kind, "account", in.AccountNumber, "err", err)
		v.notify.Error(errText(err, "Transaction failed"))
		return
	}

	v.notify.Success(fmt.Sprintf("%s initiated successfully! Reference: %s", kind.Label(), res.Reference))
	v.loadAccounts(ctx, false)
	v.loadTransactions(ctx)
}

func (v *Dashboard) submit(ctx context.Context, in forms.TransactionInput, active []domain.Account) (*domain.TransactionResult, error) {
	switch in.Kind {
	case forms.KindDeposit, forms.KindWithdraw, forms.KindTransfer:
	default:
		return nil, ErrNotImplemented
	}

	if !slices.ContainsFunc(active, func(a domain.Account) bool { return a.AccountNumber == in.AccountNumber }) {
		return nil, ErrNoAccount
	}
	amount, err := forms.ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	switch in.Kind {
	case forms.KindDeposit:
		return v.txs.Deposit(ctx, in.AccountNumber, amount, in.Description)
	case forms.KindWithdraw:
		return v.txs.Withdraw(ctx, in.AccountNumber, amount, in.Description)
	default:
		return v.txs.Transfer(ctx, in.AccountNumber, TransferDestination, amount, in.Description)
	}
}

func (v *Dashboard) render() {
	s := v.styles
	name := "there"
	if u, ok := v.session.User(); ok && u.Username != "" {
		name = u.Username
	}

	fmt.Fprintln(v.out, s.title.Render("Welcome back, "+name))
	fmt.Fprintln(v.out, s.stats(
		"Total balance", domain.FormatAmount(TotalBalance(v.Accounts), domain.DefaultCurrency),
		"Accounts", fmt.Sprint(len(v.Accounts)),
		"Transactions", fmt.Sprint(len(v.Transactions)),
	))

	fmt.Fprintln(v.out, s.title.Render("Your accounts"))
	if len(v.Accounts) == 0 {
		fmt.Fprintln(v.out, s.subtle.Render("No accounts yet"))
	} else {
		fmt.Fprintln(v.out, s.grid([]string{"ID", "Account", "Type", "Balance", "Status", "Opened"}, accountRows(v.Accounts, false), 4))
	}

	title := "Recent transactions"
	if v.Search != "" {
		title += fmt.Sprintf(" matching %q", v.Search)
	}
	fmt.Fprintln(v.out, s.title.Render(title))
	switch txs := FilterTransactions(v.Transactions, v.Search); {
	case v.TransactionsErr != "":
		fmt.Fprintln(v.out, s.subtle.Render(v.TransactionsErr))
	case len(txs) == 0:
		fmt.Fprintln(v.out, s.subtle.Render("No transactions found"))
	default:
		fmt.Fprintln(v.out, s.grid([]string{"Reference", "Type", "Amount", "Status", "Description", "When"}, transactionRows(txs, v.now()), -1))
	}
}

// TotalBalance sums the balances of all accounts regardless of currency.
func TotalBalance(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// ActiveAccounts are the accounts a transaction may be drawn on.
func ActiveAccounts(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	return out
}

// SortNewestFirst orders transactions by creation time, newest first.
func SortNewestFirst(txs []domain.Transaction) {
	slices.SortStableFunc(txs, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// FilterTransactions keeps transactions whose reference, description or
// type contains term, ignoring case. An empty term keeps everything.
func FilterTransactions(txs []domain.Transaction, term string) []domain.Transaction {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return txs
	}
	var out []domain.Transaction
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Reference), term) ||
			strings.Contains(strings.ToLower(tx.Description), term) ||
			strings.Contains(strings.ToLower(string(tx.Type)), term) {
			out = append(out, tx)
		}
	}
	return out
}
