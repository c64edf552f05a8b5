package mockserver

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"banking-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every seeded login.
const SeedPassword = "password123"

var (
	errNotFound          = errors.New("not found")
	errInsufficientFunds = errors.New("Insufficient funds")
	errInactiveAccount   = errors.New("Account is not active")
	errInvalidAmount     = errors.New("Amount must be greater than zero")
	errUsernameTaken     = errors.New("Error: Username is already taken!")
	errEmailTaken        = errors.New("Error: Email is already in use!")
	errForbiddenAccount  = errors.New("Account does not belong to the current user")
)

type user struct {
	profile      domain.Profile
	passwordHash []byte
}

// bank is the in-memory state behind the demo backend. One mutex guards
// everything; handlers hold it only for the duration of a single operation.
type bank struct {
	mu            sync.Mutex
	users         map[string]*user // by username
	accounts      map[string]*domain.Account
	transactions  []domain.Transaction
	notifications []domain.Notification
	nextUserID    int64
	nextAccountID int64
	nextTxID      int64
	nextNoteID    int64
	now           func() time.Time
}

func newBank(now func() time.Time) (*bank, error) {
	b := &bank{
		users:         map[string]*user{},
		accounts:      map[string]*domain.Account{},
		nextUserID:    1,
		nextAccountID: 2000,
		nextTxID:      1,
		nextNoteID:    1,
		now:           now,
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	b.addUser("testuser", "testuser@example.com", "Test", "User", hash, domain.RoleUser)
	b.addUser("testadmin", "testadmin@example.com", "Test", "Admin", hash, domain.RoleUser, domain.RoleAdmin)

	owners := []struct {
		id                    int64
		username, first, last string
		email                 string
	}{
		{101, "john.doe", "John", "Doe", "john.doe@example.com"},
		{102, "jane.smith", "Jane", "Smith", "jane.smith@example.com"},
		{103, "robert.j", "Robert", "Johnson", "robert.j@example.com"},
		{104, "emily.d", "Emily", "Davis", "emily.d@example.com"},
		{105, "michael.w", "Michael", "Wilson", "michael.w@example.com"},
	}
	for _, o := range owners {
		b.users[o.username] = &user{
			profile: domain.Profile{
				ID: o.id, Username: o.username, Email: o.email,
				FirstName: o.first, LastName: o.last,
				Roles: domain.NewRoleSet(domain.RoleUser),
			},
			passwordHash: hash,
		}
	}

	day := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	seed := []domain.Account{
		{ID: 1, AccountNumber: "1000000001", ProfileID: "1", Type: domain.AccountChecking, Balance: decimal.RequireFromString("5000.00"), Status: domain.AccountActive, CreatedAt: day("2023-02-01T08:00:00Z")},
		{ID: 2, AccountNumber: "1000000002", ProfileID: "1", Type: domain.AccountSavings, Balance: decimal.RequireFromString("12000.00"), Status: domain.AccountActive, CreatedAt: day("2023-02-01T08:05:00Z")},
		{ID: 3, AccountNumber: "1000000003", ProfileID: "1", Type: domain.AccountChecking, Balance: decimal.Zero, Status: domain.AccountInactive, CreatedAt: day("2023-04-12T10:00:00Z")},
		{ID: 1001, AccountNumber: "1234567890", ProfileID: "101", Type: domain.AccountChecking, Balance: decimal.RequireFromString("2580.45"), Status: domain.AccountActive, CreatedAt: day("2022-01-15T09:30:00Z")},
		{ID: 1002, AccountNumber: "9876543210", ProfileID: "101", Type: domain.AccountSavings, Balance: decimal.RequireFromString("15750.20"), Status: domain.AccountActive, CreatedAt: day("2022-03-10T14:20:00Z")},
		{ID: 1003, AccountNumber: "5678901234", ProfileID: "102", Type: domain.AccountFixedDeposit, Balance: decimal.RequireFromString("50000.00"), Status: domain.AccountActive, CreatedAt: day("2022-06-22T11:15:00Z")},
		{ID: 1004, AccountNumber: "2468013579", ProfileID: "103", Type: domain.AccountChecking, Balance: decimal.RequireFromString("3200.75"), Status: domain.AccountInactive, CreatedAt: day("2022-08-05T10:45:00Z")},
		{ID: 1005, AccountNumber: "1357924680", ProfileID: "104", Type: domain.AccountSavings, Balance: decimal.RequireFromString("8900.30"), Status: domain.AccountActive, CreatedAt: day("2022-09-18T13:20:00Z")},
		{ID: 1006, AccountNumber: "9753102468", ProfileID: "105", Type: domain.AccountChecking, Balance: decimal.RequireFromString("1500.00"), Status: domain.AccountActive, CreatedAt: day("2022-10-30T09:10:00Z")},
		// Fixed destination used by the dashboard's transfer dialog.
		{ID: 1007, AccountNumber: "12345672", ProfileID: "102", Type: domain.AccountSavings, Balance: decimal.Zero, Status: domain.AccountActive, CreatedAt: day("2022-11-01T09:00:00Z")},
	}
	for i := range seed {
		a := seed[i]
		a.Currency = domain.DefaultCurrency
		a.UpdatedAt = a.CreatedAt
		b.accounts[a.AccountNumber] = &a
	}

	b.seedTransactions()
	return b, nil
}

func (b *bank) addUser(username, email, first, last string, hash []byte, roles ...domain.Role) *user {
	u := &user{
		profile: domain.Profile{
			ID:        b.nextUserID,
			Username:  username,
			Email:     email,
			FirstName: first,
			LastName:  last,
			Roles:     domain.NewRoleSet(roles...),
		},
		passwordHash: hash,
	}
	b.nextUserID++
	b.users[username] = u
	return u
}

func (b *bank) seedTransactions() {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	history := []struct {
		typ       domain.TransactionType
		src, dst  string
		amount    string
		desc      string
		createdAt string
	}{
		{domain.TxDeposit, "", "1000000001", "5000.00", "Opening deposit", "2023-02-01T08:10:00Z"},
		{domain.TxDeposit, "", "1000000002", "12500.00", "Savings transfer in", "2023-02-02T09:00:00Z"},
		{domain.TxWithdrawal, "1000000002", "", "500.00", "ATM withdrawal", "2023-03-15T17:45:00Z"},
	}
	for _, h := range history {
		created := at(h.createdAt)
		b.transactions = append(b.transactions, domain.Transaction{
			ID:                   b.nextTxID,
			Reference:            newReference(),
			Type:                 h.typ,
			Amount:               decimal.RequireFromString(h.amount),
			Currency:             domain.DefaultCurrency,
			SourceAccountID:      domain.Ref(h.src),
			DestinationAccountID: domain.Ref(h.dst),
			Status:               domain.TxCompleted,
			Description:          h.desc,
			UserID:               "1",
			CreatedAt:            created,
			CompletedAt:          &created,
		})
		b.nextTxID++
	}
}

func newReference() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (b *bank) authenticate(username, password string) (domain.Profile, bool) {
	b.mu.Lock()
	u, ok := b.users[username]
	b.mu.Unlock()
	if !ok {
		return domain.Profile{}, false
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return domain.Profile{}, false
	}
	return u.profile, true
}

// signupRole accepts the short role names the signup form sends ("admin",
// "user") as well as the full authority names.
func signupRole(s string) domain.Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROLE_ADMIN", "ADMIN":
		return domain.RoleAdmin
	case "ROLE_USER", "USER":
		return domain.RoleUser
	default:
		return domain.Role(s)
	}
}

func (b *bank) register(req domain.SignupRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	roles := []domain.Role{domain.RoleUser}
	for _, r := range req.Roles {
		if signupRole(r) == domain.RoleAdmin {
			roles = append(roles, domain.RoleAdmin)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.users[req.Username]; ok {
		return errUsernameTaken
	}
	for _, u := range b.users {
		if strings.EqualFold(u.profile.Email, req.Email) {
			return errEmailTaken
		}
	}

	b.addUser(req.Username, req.Email, req.FirstName, req.LastName, hash, roles...)
	return nil
}

func (b *bank) profile(id int64) (domain.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.profile.ID == id {
			return u.profile, nil
		}
	}
	return domain.Profile{}, errNotFound
}

func (b *bank) updateProfile(id int64, update domain.ProfileUpdate) (domain.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.profile.ID != id {
			continue
		}
		if update.Email != "" {
			u.profile.Email = update.Email
		}
		if update.FirstName != "" {
			u.profile.FirstName = update.FirstName
		}
		if update.LastName != "" {
			u.profile.LastName = update.LastName
		}
		return u.profile, nil
	}
	return domain.Profile{}, errNotFound
}

func (b *bank) account(number string) (domain.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[number]
	if !ok {
		return domain.Account{}, errNotFound
	}
	return *a, nil
}

func (b *bank) accountsFor(profileID string) []domain.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Account{}
	for _, a := range b.accounts {
		if string(a.ProfileID) == profileID {
			out = append(out, *a)
		}
	}
	slices.SortFunc(out, func(x, y domain.Account) int { return cmp.Compare(x.ID, y.ID) })
	return out
}

func (b *bank) createAccount(req domain.CreateAccountRequest) (domain.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !slices.Contains(domain.AccountTypes, req.Type) {
		return domain.Account{}, fmt.Errorf("Invalid account type: %s", req.Type)
	}

	now := b.now()
	a := &domain.Account{
		ID:            b.nextAccountID,
		AccountNumber: "3" + strconv.FormatInt(1_000_000_000+b.nextAccountID, 10)[1:],
		ProfileID:     domain.Ref(req.ProfileID),
		Type:          req.Type,
		Balance:       decimal.Zero,
		Currency:      domain.DefaultCurrency,
		Status:        domain.AccountActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.nextAccountID++
	b.accounts[a.AccountNumber] = a
	return *a, nil
}

func (b *bank) updateAccount(number string, fn func(a *domain.Account) error) (domain.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[number]
	if !ok {
		return domain.Account{}, errNotFound
	}
	if err := fn(a); err != nil {
		return domain.Account{}, err
	}
	a.UpdatedAt = b.now()
	return *a, nil
}

func credit(amount decimal.Decimal) func(a *domain.Account) error {
	return func(a *domain.Account) error {
		if !amount.IsPositive() {
			return errInvalidAmount
		}
		a.Balance = a.Balance.Add(amount)
		return nil
	}
}

func debit(amount decimal.Decimal) func(a *domain.Account) error {
	return func(a *domain.Account) error {
		if !amount.IsPositive() {
			return errInvalidAmount
		}
		if a.Balance.LessThan(amount) {
			return errInsufficientFunds
		}
		a.Balance = a.Balance.Sub(amount)
		return nil
	}
}

// movement is one deposit, withdrawal or transfer request after decoding.
type movement struct {
	typ         domain.TransactionType
	source      string
	destination string
	amount      decimal.Decimal
	currency    string
	description string
	userID      string
}

// apply validates and books a movement atomically. owns reports whether the
// caller may debit the given account.
func (b *bank) apply(m movement, owns func(a *domain.Account) bool) (domain.Transaction, error) {
	if !m.amount.IsPositive() {
		return domain.Transaction{}, errInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	lookup := func(number string) (*domain.Account, error) {
		a, ok := b.accounts[number]
		if !ok {
			return nil, fmt.Errorf("Account not found: %s", number)
		}
		if !a.IsActive() {
			return nil, errInactiveAccount
		}
		return a, nil
	}

	var src, dst *domain.Account
	var err error
	if m.source != "" {
		if src, err = lookup(m.source); err != nil {
			return domain.Transaction{}, err
		}
		if !owns(src) {
			return domain.Transaction{}, errForbiddenAccount
		}
		if src.Balance.LessThan(m.amount) {
			return domain.Transaction{}, errInsufficientFunds
		}
	}
	if m.destination != "" {
		if dst, err = lookup(m.destination); err != nil {
			return domain.Transaction{}, err
		}
		if m.typ == domain.TxDeposit && !owns(dst) {
			return domain.Transaction{}, errForbiddenAccount
		}
	}

	now := b.now()
	if src != nil {
		src.Balance = src.Balance.Sub(m.amount)
		src.UpdatedAt = now
	}
	if dst != nil {
		dst.Balance = dst.Balance.Add(m.amount)
		dst.UpdatedAt = now
	}

	currency := m.currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	tx := domain.Transaction{
		ID:                   b.nextTxID,
		Reference:            newReference(),
		Type:                 m.typ,
		Amount:               m.amount,
		Currency:             currency,
		SourceAccountID:      domain.Ref(m.source),
		DestinationAccountID: domain.Ref(m.destination),
		Status:               domain.TxCompleted,
		Description:          m.description,
		UserID:               domain.Ref(m.userID),
		CreatedAt:            now,
		CompletedAt:          &now,
	}
	b.nextTxID++
	b.transactions = append(b.transactions, tx)
	b.notify(tx)

	return tx, nil
}

// notify must be called with b.mu held.
func (b *bank) notify(tx domain.Transaction) {
	userID, _ := strconv.ParseInt(string(tx.UserID), 10, 64)
	sent := tx.CreatedAt
	b.notifications = append(b.notifications, domain.Notification{
		ID:                   b.nextNoteID,
		UserID:               userID,
		TransactionReference: tx.Reference,
		TransactionType:      tx.Type,
		TransactionStatus:    tx.Status,
		Amount:               tx.Amount,
		Currency:             tx.Currency,
		Timestamp:            tx.CreatedAt,
		Message:              fmt.Sprintf("%s of %s %s %s", strings.ToLower(string(tx.Type)), tx.Amount.StringFixed(2), tx.Currency, strings.ToLower(string(tx.Status))),
		SentAt:               &sent,
		DeliverySuccessful:   true,
	})
	b.nextNoteID++
}

func (b *bank) transaction(ref string) (domain.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.transactions {
		if tx.Reference == ref {
			return tx, nil
		}
	}
	return domain.Transaction{}, errNotFound
}

func (b *bank) transactionsFor(userID string) []domain.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Transaction{}
	for _, tx := range b.transactions {
		if string(tx.UserID) == userID {
			out = append(out, tx)
		}
	}
	return out
}

func (b *bank) notificationsWhere(match func(n domain.Notification) bool) []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []domain.Notification{}
	for _, n := range b.notifications {
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}
