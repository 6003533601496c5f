package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func income(amount string, class CalculationClass) IncomeEntry {
	return IncomeEntry{Amount: decimal.RequireFromString(amount), CalculationClass: class}
}

func payment(amount string) PaymentEntry {
	return PaymentEntry{Amount: decimal.RequireFromString(amount)}
}

func TestNewBalance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		incomes       []IncomeEntry
		payments      []PaymentEntry
		wantIncome    string
		wantObligaton string
		wantPaid      string
		wantRemaining string
	}{
		{
			name:          "Empty",
			wantIncome:    "0",
			wantObligaton: "0",
			wantPaid:      "0",
			wantRemaining: "0",
		},
		{
			name:          "TenPercent",
			incomes:       []IncomeEntry{income("1000", TenPercent)},
			wantIncome:    "1000",
			wantObligaton: "100",
			wantPaid:      "0",
			wantRemaining: "100",
		},
		{
			name:          "TwentyPercent",
			incomes:       []IncomeEntry{income("1000", TwentyPercent)},
			wantIncome:    "1000",
			wantObligaton: "200",
			wantPaid:      "0",
			wantRemaining: "200",
		},
		{
			name:          "MixedClasses",
			incomes:       []IncomeEntry{income("1000", TenPercent), income("1000", TwentyPercent)},
			wantIncome:    "2000",
			wantObligaton: "300",
			wantPaid:      "0",
			wantRemaining: "300",
		},
		{
			name:          "Overpaid",
			incomes:       []IncomeEntry{income("1000", TenPercent)},
			payments:      []PaymentEntry{payment("150")},
			wantIncome:    "1000",
			wantObligaton: "100",
			wantPaid:      "150",
			wantRemaining: "-50",
		},
		{
			name: "Scenario",
			incomes: []IncomeEntry{
				income("1000", TenPercent),
				income("2000", TenPercent),
			},
			payments:      []PaymentEntry{payment("50"), payment("100")},
			wantIncome:    "3000",
			wantObligaton: "300",
			wantPaid:      "150",
			wantRemaining: "150",
		},
		{
			name:          "ExactDecimals",
			incomes:       []IncomeEntry{income("0.1", TenPercent), income("0.2", TenPercent)},
			payments:      []PaymentEntry{payment("0.01")},
			wantIncome:    "0.3",
			wantObligaton: "0.03",
			wantPaid:      "0.01",
			wantRemaining: "0.02",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NewBalance(tc.incomes, tc.payments)

			check := func(field string, got decimal.Decimal, want string) {
				if !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}

			check("TotalIncome", got.TotalIncome, tc.wantIncome)
			check("Obligation", got.Obligation, tc.wantObligaton)
			check("TotalPaid", got.TotalPaid, tc.wantPaid)
			check("Remaining", got.Remaining, tc.wantRemaining)
		})
	}
}

func TestBalanceCanPay(t *testing.T) {
	t.Parallel()

	b := NewBalance([]IncomeEntry{income("1000", TenPercent)}, nil)

	if !b.CanPay(decimal.RequireFromString("100")) {
		t.Errorf("b.CanPay(100) = false, want true")
	}

	if b.CanPay(decimal.RequireFromString("100.01")) {
		t.Errorf("b.CanPay(100.01) = true, want false")
	}
}

func TestCalculationClass(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		class     CalculationClass
		wantValid bool
		wantRate  string
	}{
		{TenPercent, true, "0.1"},
		{TwentyPercent, true, "0.2"},
		{"maaser", false, "0"},
		{"", false, "0"},
	}

	for _, tc := range testCases {
		if got := tc.class.Valid(); got != tc.wantValid {
			t.Errorf("CalculationClass(%q).Valid() = %v, want %v", tc.class, got, tc.wantValid)
		}

		if got := tc.class.Rate(); !got.Equal(decimal.RequireFromString(tc.wantRate)) {
			t.Errorf("CalculationClass(%q).Rate() = %v, want %v", tc.class, got, tc.wantRate)
		}
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		wantErr error
	}{
		{"100", nil},
		{"0.5", nil},
		{"abc", ErrInvalidAmount},
		{"", ErrInvalidAmount},
		{"0", ErrNonPositiveAmount},
		{"-10", ErrNonPositiveAmount},
		{"1e50000000", ErrInvalidAmount},
		{"1e-50000000", ErrInvalidAmount},
		{"1e2000000000", ErrInvalidAmount},
		{"0.0000000000000000001", ErrInvalidAmount},
		{"12345678901234567890123456789012345678901", ErrInvalidAmount},
		{"1000000000000000000", nil},
		{"0.000000000000000001", nil},
	}

	for _, tc := range testCases {
		got, err := ParseAmount(tc.input)
		if err != tc.wantErr {
			t.Errorf("ParseAmount(%q) returned error %v, want %v", tc.input, err, tc.wantErr)
		}

		if err == nil && got.String() != tc.input {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.input, got, tc.input)
		}
	}
}

func TestAccessRequestStatusTransitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from, to AccessRequestStatus
		want     bool
	}{
		{AccessPending, AccessApproved, true},
		{AccessPending, AccessRejected, true},
		{AccessPending, AccessPending, false},
		{AccessApproved, AccessRejected, false},
		{AccessRejected, AccessApproved, false},
		{AccessApproved, AccessPending, false},
	}

	for _, tc := range testCases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%q.CanTransitionTo(%q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
