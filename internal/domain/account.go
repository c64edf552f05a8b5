package domain

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	money "google.golang.org/genproto/googleapis/type/money"
)

const DefaultCurrency = "KES"

type AccountType string

const (
	AccountChecking     AccountType = "CHECKING"
	AccountSavings      AccountType = "SAVINGS"
	AccountFixedDeposit AccountType = "FIXED_DEPOSIT"
)

var AccountTypes = []AccountType{AccountChecking, AccountSavings, AccountFixedDeposit}

type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	ProfileID     Ref             `json:"profileId"`
	OwnerName     string          `json:"userName,omitempty"`
	Type          AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency,omitempty"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// Money converts the balance into the google.type.Money representation.
func (a Account) Money() *money.Money {
	currency := a.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return ToMoney(a.Balance, currency)
}

// ToMoney splits a decimal amount into whole units and nanos. Both parts
// carry the sign of the amount, as google.type.Money requires.
func ToMoney(amount decimal.Decimal, currency string) *money.Money {
	units := amount.IntPart()
	nanos := amount.Sub(decimal.NewFromInt(units)).Shift(9).IntPart()
	return &money.Money{
		CurrencyCode: currency,
		Units:        units,
		Nanos:        int32(nanos),
	}
}

// FormatAmount renders an amount with thousands separators and two
// decimals, e.g. "KES 12,000.50".
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return FormatMoney(ToMoney(amount.Round(2), currency))
}

// FormatMoney renders m to the cent, truncating any finer nanos.
func FormatMoney(m *money.Money) string {
	currency := m.GetCurrencyCode()
	if currency == "" {
		currency = DefaultCurrency
	}
	units, nanos := m.GetUnits(), m.GetNanos()
	sign := ""
	if units < 0 || nanos < 0 {
		sign, units, nanos = "-", -units, -nanos
	}
	return fmt.Sprintf("%s %s%s.%02d", currency, sign, humanize.Comma(units), nanos/1e7)
}

type CreateAccountRequest struct {
	ProfileID string      `json:"profileId"`
	Type      AccountType `json:"accountType"`
}

type UpdateAccountRequest struct {
	Type AccountType `json:"accountType"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type AccountBalance struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency,omitempty"`
}

type AccountStatusResponse struct {
	AccountNumber string        `json:"accountNumber"`
	Status        AccountStatus `json:"status"`
}
