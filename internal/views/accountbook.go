package views

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"

	"github.com/shopspring/decimal"
)

const unknownOwner = "Unknown User"

// MockUser is an account holder in the admin dataset.
type MockUser struct {
	ID     int64
	Name   string
	Email  string
	Active bool
}

type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)

func (f StatusFilter) matches(s domain.AccountStatus) bool {
	switch f {
	case FilterActive:
		return s == domain.AccountActive
	case FilterInactive:
		return s == domain.AccountInactive
	default:
		return true
	}
}

type Stats struct {
	Total    int
	Active   int
	Inactive int
}

// AccountBook is the admin dashboard's local account list. Nothing here
// reaches the backend.
type AccountBook struct {
	mu       sync.Mutex
	accounts []domain.Account
	users    []MockUser
	now      func() time.Time
}

func NewAccountBook(accounts []domain.Account, users []MockUser, now func() time.Time) *AccountBook {
	if now == nil {
		now = time.Now
	}
	return &AccountBook{
		accounts: append([]domain.Account(nil), accounts...),
		users:    append([]MockUser(nil), users...),
		now:      now,
	}
}

// NewSampleAccountBook is seeded with the six demo accounts and five users.
func NewSampleAccountBook(now func() time.Time) *AccountBook {
	return NewAccountBook(SampleAccounts(), SampleUsers(), now)
}

func (b *AccountBook) Accounts() []domain.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Account(nil), b.accounts...)
}

func (b *AccountBook) Account(id int64) (domain.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(id); i >= 0 {
		return b.accounts[i], true
	}
	return domain.Account{}, false
}

func (b *AccountBook) Users() []MockUser {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]MockUser(nil), b.users...)
}

// Owners lists the users selectable in the account dialog.
func (b *AccountBook) Owners() []forms.Owner {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]forms.Owner, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, forms.Owner{ID: u.ID, Name: u.Name})
	}
	return out
}

func (b *AccountBook) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := Stats{Total: len(b.accounts)}
	for _, a := range b.accounts {
		switch a.Status {
		case domain.AccountActive:
			st.Active++
		case domain.AccountInactive:
			st.Inactive++
		}
	}
	return st
}

// Activate sets only the status; it reports whether the account exists.
func (b *AccountBook) Activate(id int64) bool {
	return b.setStatus(id, domain.AccountActive)
}

func (b *AccountBook) Deactivate(id int64) bool {
	return b.setStatus(id, domain.AccountInactive)
}

func (b *AccountBook) setStatus(id int64, status domain.AccountStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.accounts[i].Status = status
	return true
}

// Draft fills the edit dialog from an existing account.
func (b *AccountBook) Draft(id int64) (forms.AccountDraft, bool) {
	a, ok := b.Account(id)
	if !ok {
		return forms.AccountDraft{}, false
	}
	return forms.AccountDraft{
		AccountNumber: a.AccountNumber,
		Type:          a.Type,
		Balance:       a.Balance.String(),
		Currency:      a.Currency,
		Status:        a.Status,
		UserID:        a.ProfileID.String(),
	}, true
}

// Save updates the account with id editID, or appends a new account with
// the next id when editID is zero. An unparsable balance is saved as zero.
func (b *AccountBook) Save(editID int64, d forms.AccountDraft) (domain.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := decimal.NewFromString(strings.TrimSpace(d.Balance))
	if err != nil {
		balance = decimal.Zero
	}
	owner := b.ownerName(d.UserID)

	if editID != 0 {
		i := b.index(editID)
		if i < 0 {
			return domain.Account{}, false
		}
		a := &b.accounts[i]
		a.AccountNumber = d.AccountNumber
		a.Type = d.Type
		a.Balance = balance
		a.Currency = d.Currency
		a.Status = d.Status
		a.ProfileID = domain.Ref(d.UserID)
		a.OwnerName = owner
		a.UpdatedAt = b.now()
		return *a, true
	}

	var maxID int64
	for _, a := range b.accounts {
		maxID = max(maxID, a.ID)
	}
	created := domain.Account{
		ID:            maxID + 1,
		AccountNumber: d.AccountNumber,
		Type:          d.Type,
		Balance:       balance,
		Currency:      d.Currency,
		Status:        d.Status,
		ProfileID:     domain.Ref(d.UserID),
		OwnerName:     owner,
		CreatedAt:     b.now(),
	}
	b.accounts = append(b.accounts, created)
	return created, true
}

// Filter matches term against account number, owner name and type, ignoring
// case, and keeps accounts whose status passes the filter.
func (b *AccountBook) Filter(term string, status StatusFilter) []domain.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	term = strings.ToLower(term)
	var out []domain.Account
	for _, a := range b.accounts {
		if !status.matches(a.Status) {
			continue
		}
		if strings.Contains(strings.ToLower(a.AccountNumber), term) ||
			strings.Contains(strings.ToLower(a.OwnerName), term) ||
			strings.Contains(strings.ToLower(string(a.Type)), term) {
			out = append(out, a)
		}
	}
	return out
}

func (b *AccountBook) index(id int64) int {
	for i, a := range b.accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (b *AccountBook) ownerName(userID string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if err != nil {
		return unknownOwner
	}
	for _, u := range b.users {
		if u.ID == id {
			return u.Name
		}
	}
	return unknownOwner
}

func SampleUsers() []MockUser {
	return []MockUser{
		{ID: 101, Name: "John Doe", Email: "john.doe@example.com", Active: true},
		{ID: 102, Name: "Jane Smith", Email: "jane.smith@example.com", Active: true},
		{ID: 103, Name: "Robert Johnson", Email: "robert.j@example.com", Active: false},
		{ID: 104, Name: "Emily Davis", Email: "emily.d@example.com", Active: true},
		{ID: 105, Name: "Michael Wilson", Email: "michael.w@example.com", Active: true},
	}
}

func SampleAccounts() []domain.Account {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	acct := func(id int64, number string, typ domain.AccountType, balance string, status domain.AccountStatus, owner domain.Ref, name, created string) domain.Account {
		return domain.Account{
			ID:            id,
			AccountNumber: number,
			Type:          typ,
			Balance:       decimal.RequireFromString(balance),
			Currency:      domain.DefaultCurrency,
			Status:        status,
			ProfileID:     owner,
			OwnerName:     name,
			CreatedAt:     at(created),
		}
	}
	return []domain.Account{
		acct(1001, "1234567890", domain.AccountChecking, "2580.45", domain.AccountActive, "101", "John Doe", "2022-01-15T09:30:00Z"),
		acct(1002, "9876543210", domain.AccountSavings, "15750.20", domain.AccountActive, "101", "John Doe", "2022-03-10T14:20:00Z"),
		acct(1003, "5678901234", domain.AccountFixedDeposit, "50000.00", domain.AccountActive, "102", "Jane Smith", "2022-06-22T11:15:00Z"),
		acct(1004, "2468013579", domain.AccountChecking, "3200.75", domain.AccountInactive, "103", "Robert Johnson", "2022-08-05T10:45:00Z"),
		acct(1005, "1357924680", domain.AccountSavings, "8900.30", domain.AccountActive, "104", "Emily Davis", "2022-09-18T13:20:00Z"),
		acct(1006, "9753102468", domain.AccountChecking, "1500.00", domain.AccountActive, "105", "Michael Wilson", "2022-10-30T09:10:00Z"),
	}
}
