package client

import (
	"context"
	"net/http"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	t       Transport
	session Session
	log     *log.Logger
}

// Deposit credits accountID. Currency is always KES and the user id is taken
// from the current session.
func (s *TransactionService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return s.post(ctx, "/transactions/v1/deposit", domain.DepositRequest{
		AccountID:   accountID,
		Amount:      amount,
		Currency:    domain.DefaultCurrency,
		Description: description,
		UserID:      s.session.UserID(),
	})
}

func (s *TransactionService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return s.post(ctx, "/transactions/v1/withdraw", domain.WithdrawalRequest{
		AccountID:   accountID,
		Amount:      amount,
		Currency:    domain.DefaultCurrency,
		Description: description,
		UserID:      s.session.UserID(),
	})
}

func (s *TransactionService) Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.TransactionResult, error) {
	return s.post(ctx, "/transactions/v1/transfer", domain.TransferRequest{
		SourceAccountID:      sourceAccountID,
		DestinationAccountID: destinationAccountID,
		Amount:               amount,
		Currency:             domain.DefaultCurrency,
		Description:          description,
		UserID:               s.session.UserID(),
	})
}

func (s *TransactionService) post(ctx context.Context, endpoint string, body any) (*domain.TransactionResult, error) {
	var result domain.TransactionResult
	if err := s.t.Fetch(ctx, endpoint, gateway.Request{Method: http.MethodPost, Body: body}, &result); err != nil {
		return nil, err
	}
	s.log.Info("transaction submitted", "endpoint", endpoint, "ref", result.Reference, "status", result.Status)
	return &result, nil
}

func (s *TransactionService) ByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := s.t.Fetch(ctx, "/transactions/v1/"+seg(reference), gateway.Request{
		Pattern: "/transactions/v1/{reference}",
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *TransactionService) ForUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.t.Fetch(ctx, "/transactions/v1/user/"+seg(userID), gateway.Request{
		Pattern: "/transactions/v1/user/{userId}",
	}, &txs)
	if err != nil {
		return nil, err
	}
	s.log.Info("successfully fetched transactions", "count", len(txs))
	return txs, nil
}
