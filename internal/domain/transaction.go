package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "DEPOSIT"
	TxWithdrawal TransactionType = "WITHDRAWAL"
	TxTransfer   TransactionType = "TRANSFER"
	TxPayment    TransactionType = "PAYMENT"
	TxRefund     TransactionType = "REFUND"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
	TxCancelled TransactionStatus = "CANCELLED"
)

type Transaction struct {
	ID                   int64             `json:"id"`
	Reference            string            `json:"transactionReference"`
	Type                 TransactionType   `json:"type"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency,omitempty"`
	SourceAccountID      Ref               `json:"sourceAccountId,omitempty"`
	DestinationAccountID Ref               `json:"destinationAccountId,omitempty"`
	Status               TransactionStatus `json:"status"`
	Description          string            `json:"description"`
	UserID               Ref               `json:"userId,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"`
	FailureReason        string            `json:"failureReason,omitempty"`
}

// IsCredit reports whether the transaction adds money to the user's side.
func (t Transaction) IsCredit() bool {
	return t.Type == TxDeposit || t.Type == TxRefund
}

type DepositRequest struct {
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	UserID      string          `json:"userId"`
}

// WithdrawalRequest has the same shape as a deposit.
type WithdrawalRequest = DepositRequest

type TransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountId"`
	DestinationAccountID string          `json:"destinationAccountId"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Description          string          `json:"description"`
	UserID               string          `json:"userId"`
}

type TransactionResult struct {
	Message   string            `json:"message"`
	Reference string            `json:"transactionReference"`
	Status    TransactionStatus `json:"status"`
}

type Notification struct {
	ID                   int64             `json:"id"`
	UserID               int64             `json:"userId"`
	TransactionReference string            `json:"transactionReference"`
	TransactionType      TransactionType   `json:"transactionType"`
	TransactionStatus    TransactionStatus `json:"transactionStatus"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Timestamp            time.Time         `json:"timestamp"`
	Message              string            `json:"message"`
	SentAt               *time.Time        `json:"sentAt,omitempty"`
	DeliverySuccessful   bool              `json:"deliverySuccessful"`
}

// PaymentResult is returned by the payment processor.
type PaymentResult struct {
	TransactionID string            `json:"transactionId"`
	Status        TransactionStatus `json:"status"`
	Message       string            `json:"message"`
}

type PaymentDetails struct {
	TransactionID string            `json:"transactionId"`
	FromAccount   string            `json:"fromAccount"`
	ToAccount     string            `json:"toAccount"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	Timestamp     int64             `json:"timestamp"`
}
