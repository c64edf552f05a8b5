package client

import (
	"context"
	"net/http"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	t   Transport
	log *log.Logger
}

// Create opens an account. Admin only.
func (s *AccountService) Create(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	var account domain.Account
	err := s.t.Fetch(ctx, "/accounts/v1", gateway.Request{Method: http.MethodPost, Body: req}, &account)
	if err != nil {
		return nil, err
	}
	s.log.Info("account created", "account", account.AccountNumber)
	return &account, nil
}

// Update changes the account type. Admin only.
func (s *AccountService) Update(ctx context.Context, accountNumber string, req domain.UpdateAccountRequest) (*domain.Account, error) {
	var account domain.Account
	err := s.t.Fetch(ctx, "/accounts/v1/"+seg(accountNumber), gateway.Request{
		Method:  http.MethodPut,
		Body:    req,
		Pattern: "/accounts/v1/{accountNumber}",
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) Balance(ctx context.Context, accountNumber string) (*domain.AccountBalance, error) {
	var balance domain.AccountBalance
	err := s.t.Fetch(ctx, "/accounts/v1/"+seg(accountNumber)+"/balance", gateway.Request{
		Pattern: "/accounts/v1/{accountNumber}/balance",
	}, &balance)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *AccountService) Activate(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.patch(ctx, accountNumber, "activate")
}

func (s *AccountService) Deactivate(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.patch(ctx, accountNumber, "deactivate")
}

func (s *AccountService) patch(ctx context.Context, accountNumber, action string) (*domain.Account, error) {
	var account domain.Account
	err := s.t.Fetch(ctx, "/accounts/v1/"+seg(accountNumber)+"/"+action, gateway.Request{
		Method:  http.MethodPatch,
		Pattern: "/accounts/v1/{accountNumber}/" + action,
	}, &account)
	if err != nil {
		return nil, err
	}
	s.log.Info("account status changed", "account", accountNumber, "action", action)
	return &account, nil
}

func (s *AccountService) Credit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.AccountBalance, error) {
	return s.move(ctx, accountNumber, "credit", amount)
}

func (s *AccountService) Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.AccountBalance, error) {
	return s.move(ctx, accountNumber, "debit", amount)
}

func (s *AccountService) move(ctx context.Context, accountNumber, action string, amount decimal.Decimal) (*domain.AccountBalance, error) {
	var balance domain.AccountBalance
	err := s.t.Fetch(ctx, "/accounts/v1/"+seg(accountNumber)+"/"+action, gateway.Request{
		Method:  http.MethodPost,
		Body:    domain.AmountRequest{Amount: amount},
		Pattern: "/accounts/v1/{accountNumber}/" + action,
	}, &balance)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *AccountService) Status(ctx context.Context, accountNumber string) (*domain.AccountStatusResponse, error) {
	var status domain.AccountStatusResponse
	err := s.t.Fetch(ctx, "/accounts/v1/"+seg(accountNumber)+"/status", gateway.Request{
		Pattern: "/accounts/v1/{accountNumber}/status",
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ForUser lists the accounts owned by a profile.
func (s *AccountService) ForUser(ctx context.Context, profileID string) ([]domain.Account, error) {
	var accounts []domain.Account
	err := s.t.Fetch(ctx, "/accounts/v1/user/"+seg(profileID), gateway.Request{
		Pattern: "/accounts/v1/user/{profileId}",
	}, &accounts)
	if err != nil {
		return nil, err
	}
	s.log.Info("successfully fetched accounts", "count", len(accounts))
	return accounts, nil
}
