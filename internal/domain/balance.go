package domain

import "github.com/shopspring/decimal"

// Balance is the derived obligation status of an account.
//
// Remaining may be negative when the account has overpaid.
type Balance struct {
	TotalIncome decimal.Decimal `json:"total_income"`
	Obligation  decimal.Decimal `json:"obligation"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// NewBalance computes the balance from the entries of one account.
//
// Every income contributes with the rate of its own captured calculation class.
func NewBalance(incomes []IncomeEntry, payments []PaymentEntry) Balance {
	var b Balance

	for _, in := range incomes {
		b.TotalIncome = b.TotalIncome.Add(in.Amount)
		b.Obligation = b.Obligation.Add(in.Obligation())
	}

	for _, p := range payments {
		b.TotalPaid = b.TotalPaid.Add(p.Amount)
	}

	b.Remaining = b.Obligation.Sub(b.TotalPaid)

	return b
}

// CanPay reports whether amount fits into the remaining obligation.
func (b Balance) CanPay(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(b.Remaining)
}
