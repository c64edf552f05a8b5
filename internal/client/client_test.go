package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"
	"banking-dashboard/internal/mockserver"
	"banking-dashboard/internal/session"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type recordingNavigator struct {
	routes []string
}

func (n *recordingNavigator) Redirect(route string) {
	n.routes = append(n.routes, route)
}

type fixture struct {
	client *Client
	store  *session.Store
	nav    *recordingNavigator
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})

	backend, err := mockserver.New(mockserver.Config{Logger: logger})
	if err != nil {
		t.Fatalf("Failed to create demo backend: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	store, err := session.New(session.NewMemoryStorage(), logger)
	if err != nil {
		t.Fatal(err)
	}
	nav := &recordingNavigator{}
	gw := gateway.New(srv.URL+"/api", store, logger, gateway.WithNavigator(nav))

	return &fixture{
		client: New(gw, store, logger),
		store:  store,
		nav:    nav,
	}
}

func TestSignInStoresSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.client.Auth.SignIn(ctx, "testuser", mockserver.SeedPassword)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if f.store.Token() != resp.Token || f.store.TokenType() != "Bearer" {
		t.Error("token not stored")
	}
	if f.store.UserID() != "1" {
		t.Errorf("userId = %q", f.store.UserID())
	}
	if !f.store.HasRole(domain.RoleUser) || f.store.HasRole(domain.RoleAdmin) {
		t.Errorf("roles = %v", f.store.Roles().Sorted())
	}
}

func TestSignInAdmin(t *testing.T) {
	f := setup(t)
	if _, err := f.client.Auth.SignIn(context.Background(), "testadmin", mockserver.SeedPassword); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !f.store.HasRole(domain.RoleAdmin) {
		t.Error("testadmin should carry ROLE_ADMIN")
	}
}

func TestSignInFailureLeavesSessionEmpty(t *testing.T) {
	f := setup(t)
	_, err := f.client.Auth.SignIn(context.Background(), "testuser", "nope")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Invalid username or password" {
		t.Errorf("message = %q", err.Error())
	}
	if f.store.IsAuthenticated() || len(f.nav.routes) != 0 {
		t.Error("failed sign-in must not create a session or navigate")
	}
}

func TestSignUpDefaults(t *testing.T) {
	req := NewSignupRequest("alice", "Secret123")
	if req.Email != "alice@example.com" || req.FirstName != "User" || req.LastName != "Account" {
		t.Errorf("defaults = %+v", req)
	}
	if len(req.Roles) != 1 || req.Roles[0] != "user" {
		t.Errorf("roles = %v", req.Roles)
	}

	f := setup(t)
	if _, err := f.client.Auth.SignUp(context.Background(), "alice", "Secret123"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if f.store.IsAuthenticated() {
		t.Error("signup must not sign in")
	}
	if _, err := f.client.Auth.SignIn(context.Background(), "alice", "Secret123"); err != nil {
		t.Fatalf("SignIn after SignUp: %v", err)
	}
}

func TestSignOut(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.client.Auth.SignIn(ctx, "testuser", mockserver.SeedPassword); err != nil {
		t.Fatal(err)
	}
	if err := f.client.Auth.SignOut(); err != nil {
		t.Fatal(err)
	}
	if f.store.IsAuthenticated() {
		t.Error("still authenticated after SignOut")
	}

	_, err := f.client.Accounts.ForUser(ctx, "1")
	if !errors.Is(err, gateway.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestDepositCarriesSessionUserAndCurrency(t *testing.T) {
	var got domain.DepositRequest
	fake := &fakeTransport{
		fetch: func(endpoint string, req gateway.Request, out any) error {
			got = req.Body.(domain.DepositRequest)
			return nil
		},
	}
	store, _ := session.New(session.NewMemoryStorage(), nil)
	_ = store.SetSession("t", "Bearer", domain.User{ID: 42, Username: "u"})

	c := New(fake, store, log.NewWithOptions(io.Discard, log.Options{}))
	if _, err := c.Transactions.Deposit(context.Background(), "1000000001", decimal.NewFromInt(5), "gift"); err != nil {
		t.Fatal(err)
	}
	if got.UserID != "42" || got.Currency != "KES" || got.AccountID != "1000000001" {
		t.Errorf("request = %+v", got)
	}
	if fake.endpoints[0] != "/transactions/v1/deposit" {
		t.Errorf("endpoint = %s", fake.endpoints[0])
	}
}

func TestAccountsAndTransactions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.client.Auth.SignIn(ctx, "testuser", mockserver.SeedPassword); err != nil {
		t.Fatal(err)
	}

	accounts, err := f.client.Accounts.ForUser(ctx, f.store.UserID())
	if err != nil {
		t.Fatalf("ForUser: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts", len(accounts))
	}

	res, err := f.client.Transactions.Withdraw(ctx, "1000000001", decimal.NewFromInt(100), "cash")
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	tx, err := f.client.Transactions.ByReference(ctx, res.Reference)
	if err != nil {
		t.Fatalf("ByReference: %v", err)
	}
	if tx.Type != domain.TxWithdrawal || tx.SourceAccountID != "1000000001" || tx.UserID != "1" {
		t.Errorf("transaction = %+v", tx)
	}

	bal, err := f.client.Accounts.Balance(ctx, "1000000001")
	if err != nil {
		t.Fatal(err)
	}
	if !bal.Balance.Equal(decimal.NewFromInt(4900)) {
		t.Errorf("balance = %s", bal.Balance)
	}

	notes, err := f.client.Notifications.ForTransaction(ctx, res.Reference)
	if err != nil || len(notes) != 1 {
		t.Errorf("notifications = %v, %v", notes, err)
	}
}

func TestAdminAccountOperations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.client.Auth.SignIn(ctx, "testadmin", mockserver.SeedPassword); err != nil {
		t.Fatal(err)
	}

	created, err := f.client.Accounts.Create(ctx, domain.CreateAccountRequest{ProfileID: "104", Type: domain.AccountSavings})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.AccountActive || !created.Balance.IsZero() {
		t.Errorf("created = %+v", created)
	}

	if _, err := f.client.Accounts.Credit(ctx, created.AccountNumber, decimal.NewFromInt(50)); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if _, err := f.client.Accounts.Debit(ctx, created.AccountNumber, decimal.NewFromInt(80)); err == nil {
		t.Error("expected insufficient funds")
	}

	if _, err := f.client.Accounts.Deactivate(ctx, created.AccountNumber); err != nil {
		t.Fatal(err)
	}
	st, err := f.client.Accounts.Status(ctx, created.AccountNumber)
	if err != nil || st.Status != domain.AccountInactive {
		t.Errorf("status = %+v, %v", st, err)
	}

	updated, err := f.client.Accounts.Update(ctx, created.AccountNumber, domain.UpdateAccountRequest{Type: domain.AccountFixedDeposit})
	if err != nil || updated.Type != domain.AccountFixedDeposit {
		t.Errorf("update = %+v, %v", updated, err)
	}

	p, err := f.client.Profile.ByID(ctx, "104")
	if err != nil || p.LastName != "Davis" {
		t.Errorf("profile = %+v, %v", p, err)
	}
}

func TestUserForbiddenOnAdminEndpoint(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.client.Auth.SignIn(ctx, "testuser", mockserver.SeedPassword); err != nil {
		t.Fatal(err)
	}

	_, err := f.client.Accounts.Activate(ctx, "2468013579")
	if !errors.Is(err, gateway.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if !f.store.IsAuthenticated() || len(f.nav.routes) != 0 {
		t.Error("403 must not sign the user out")
	}
}

func TestProfileAndPayments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.client.Auth.SignIn(ctx, "testuser", mockserver.SeedPassword); err != nil {
		t.Fatal(err)
	}

	me, err := f.client.Profile.UpdateMe(ctx, domain.ProfileUpdate{FirstName: "Tess"})
	if err != nil || me.FirstName != "Tess" {
		t.Fatalf("UpdateMe = %+v, %v", me, err)
	}
	me, err = f.client.Profile.Me(ctx)
	if err != nil || me.FirstName != "Tess" || me.Username != "testuser" {
		t.Errorf("Me = %+v, %v", me, err)
	}

	res, err := f.client.Payments.Process(ctx, "1000000001", "12345672", decimal.RequireFromString("12.50"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	details, err := f.client.Payments.Details(ctx, res.TransactionID)
	if err != nil || details.TransactionID != res.TransactionID {
		t.Errorf("Details = %+v, %v", details, err)
	}
}

func TestExpiredSessionForcesLogout(t *testing.T) {
	f := setup(t)
	_ = f.store.SetSession("forged", "Bearer", domain.User{ID: 1, Username: "testuser", Roles: domain.NewRoleSet(domain.RoleUser)})

	_, err := f.client.Transactions.ForUser(context.Background(), "1")
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v", err)
	}
	if f.store.IsAuthenticated() {
		t.Error("session should be cleared")
	}
	if len(f.nav.routes) != 1 || f.nav.routes[0] != "/login" {
		t.Errorf("redirects = %v", f.nav.routes)
	}
}

type fakeTransport struct {
	endpoints []string
	fetch     func(endpoint string, req gateway.Request, out any) error
}

func (f *fakeTransport) Fetch(ctx context.Context, endpoint string, req gateway.Request, out any) error {
	f.endpoints = append(f.endpoints, endpoint)
	return f.fetch(endpoint, req, out)
}

func (f *fakeTransport) FetchPublic(ctx context.Context, endpoint string, req gateway.Request, fallback string, out any) error {
	return f.Fetch(ctx, endpoint, req, out)
}

func TestPaymentQueryEncoding(t *testing.T) {
	fake := &fakeTransport{fetch: func(string, gateway.Request, any) error { return nil }}
	c := New(fake, nil, log.NewWithOptions(io.Discard, log.Options{}))
	if _, err := c.Payments.Process(context.Background(), "a b", "c", decimal.RequireFromString("1.5")); err != nil {
		t.Fatal(err)
	}
	want := "/payments/v1/process?amount=1.5&fromAccount=a+b&toAccount=c"
	if fake.endpoints[0] != want {
		t.Errorf("endpoint = %s, want %s", fake.endpoints[0], want)
	}
}
