package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrIncomeNotFound indicates that the income entry is not found or owned by another account.
	ErrIncomeNotFound = errors.New("income not found")
	// ErrPaymentNotFound indicates that the payment entry is not found or owned by another account.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositiveAmount indicates zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrPaymentExceedsBalance indicates that the payment is bigger than the remaining obligation.
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
)

// IncomeEntry holds a recorded income with the calculation class captured at creation.
type IncomeEntry struct {
	ID               int64            `json:"id"`
	AccountID        int64            `json:"account_id"`
	Amount           decimal.Decimal  `json:"amount"` // must be positive
	CalculationClass CalculationClass `json:"calculation_class"`
	Description      string           `json:"description"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Obligation returns the amount owed for this income.
func (e IncomeEntry) Obligation() decimal.Decimal {
	return e.Amount.Mul(e.CalculationClass.Rate())
}

// PaymentEntry holds a recorded payment made toward the obligation.
type PaymentEntry struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"` // must be positive
	CreatedAt time.Time       `json:"created_at"`
}

// AddIncomeParams is the input data to record an income.
type AddIncomeParams struct {
	Amount           string            `json:"amount"`
	CalculationClass *CalculationClass `json:"calculation_class"`
	Description      string            `json:"description"`
}

// EditIncomeParams holds the income fields to change. Nil fields are left untouched.
type EditIncomeParams struct {
	Amount           *string           `json:"amount"`
	Description      *string           `json:"description"`
	CalculationClass *CalculationClass `json:"calculation_class"`
}

// CreateIncomeParams is the validated input data for the income repository.
type CreateIncomeParams struct {
	AccountID        int64
	Amount           decimal.Decimal
	CalculationClass CalculationClass
	Description      string
}

// UpdateIncomeParams is the validated input data to update an income in the repository.
type UpdateIncomeParams struct {
	ID               int64
	AccountID        int64
	Amount           *decimal.Decimal
	Description      *string
	CalculationClass *CalculationClass
}

const (
	maxAmountLength   = 40
	maxAmountExponent = 18
)

// ParseAmount parses a money amount and checks that it is positive.
//
// Amounts are limited in length and exponent, so 1e2000000000 is invalid.
func ParseAmount(amount string) (decimal.Decimal, error) {
	if len(amount) > maxAmountLength {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	if e := d.Exponent(); e < -maxAmountExponent || e > maxAmountExponent {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrNonPositiveAmount
	}

	return d, nil
}
