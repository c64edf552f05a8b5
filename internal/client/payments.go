package client

import (
	"context"
	"net/http"
	"net/url"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/gateway"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

type PaymentService struct {
	t   Transport
	log *log.Logger
}

// Process moves amount between two accounts. Parameters travel in the query
// string; the request has no body.
func (s *PaymentService) Process(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal) (*domain.PaymentResult, error) {
	q := url.Values{}
	q.Set("fromAccount", fromAccount)
	q.Set("toAccount", toAccount)
	q.Set("amount", amount.String())

	var result domain.PaymentResult
	err := s.t.Fetch(ctx, "/payments/v1/process?"+q.Encode(), gateway.Request{
		Method:  http.MethodPost,
		Pattern: "/payments/v1/process",
	}, &result)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment processed", "id", result.TransactionID, "status", result.Status)
	return &result, nil
}

func (s *PaymentService) Details(ctx context.Context, transactionID string) (*domain.PaymentDetails, error) {
	var details domain.PaymentDetails
	err := s.t.Fetch(ctx, "/payments/v1/"+seg(transactionID), gateway.Request{
		Pattern: "/payments/v1/{transactionId}",
	}, &details)
	if err != nil {
		return nil, err
	}
	return &details, nil
}
