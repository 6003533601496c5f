package ledgerservice_test

import (
	"context"
	"testing"

	"github.com/haim1120/maaserbot/internal/accountrepo"
	"github.com/haim1120/maaserbot/internal/accountservice"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/incomerepo"
	"github.com/haim1120/maaserbot/internal/integrationtest"
	"github.com/haim1120/maaserbot/internal/integrationtest/helpers"
	"github.com/haim1120/maaserbot/internal/ledgerservice"
	"github.com/haim1120/maaserbot/internal/paymentrepo"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*ledgerservice.Service, *accountservice.Service, *dbpkg.DB) {
	t.Helper()

	db := integrationtest.SetupSQLite(t)
	accounts := accountservice.New(accountrepo.NewRepoPGS(db), "")
	service := ledgerservice.New(incomerepo.NewRepoPGS(db), paymentrepo.NewRepoPGS(db), accounts)

	return service, accounts, db
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	require.True(t, decimal.RequireFromString(want).Equal(got), "got %v, want %v", got, want)
}

func requireBalance(t *testing.T, b domain.Balance, income, obligation, paid, remaining string) {
	t.Helper()

	requireDecimal(t, income, b.TotalIncome)
	requireDecimal(t, obligation, b.Obligation)
	requireDecimal(t, paid, b.TotalPaid)
	requireDecimal(t, remaining, b.Remaining)
}

func TestScenario(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	_, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "1000"})
	require.NoError(t, err)

	_, err = service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "2000"})
	require.NoError(t, err)

	_, err = service.AddPayment(ctx, account.ID, "50")
	require.NoError(t, err)

	_, err = service.AddPayment(ctx, account.ID, "100")
	require.NoError(t, err)

	b, err := service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "3000", "300", "150", "150")

	h, err := service.History(ctx, account.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, h.Entries, 4)
	require.EqualValues(t, 4, h.TotalEntries)
	require.EqualValues(t, 1, h.TotalPages)

	kinds := []domain.EntryKind{}
	for _, e := range h.Entries {
		kinds = append(kinds, e.Kind)
	}

	require.Equal(t, []domain.EntryKind{
		domain.KindPayment, domain.KindPayment, domain.KindIncome, domain.KindIncome,
	}, kinds)
	requireDecimal(t, "100", h.Entries[0].Amount)
	requireDecimal(t, "2000", h.Entries[2].Amount)
	requireDecimal(t, "200", *h.Entries[2].Obligation)
}

func TestCapturedCalculationClass(t *testing.T) {
	t.Parallel()

	service, accounts, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	first, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "1000"})
	require.NoError(t, err)
	require.Equal(t, domain.TenPercent, first.CalculationClass)

	class := domain.TwentyPercent
	_, err = accounts.UpdatePreferences(ctx, account.ID, domain.UpdatePreferencesParams{CalculationClass: &class})
	require.NoError(t, err)

	second, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "1000"})
	require.NoError(t, err)
	require.Equal(t, domain.TwentyPercent, second.CalculationClass)

	b, err := service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "2000", "300", "0", "300")

	// An explicit class wins over the default.
	explicit := domain.TenPercent
	third, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{
		Amount:           "100",
		CalculationClass: &explicit,
		Description:      "gift",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TenPercent, third.CalculationClass)
	require.Equal(t, "gift", third.Description)
}

func TestOverpayment(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	_, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "1000"})
	require.NoError(t, err)

	_, err = service.AddPayment(ctx, account.ID, "150")
	require.NoError(t, err)

	b, err := service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "1000", "100", "150", "-50")
}

func TestAddValidation(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()
	badClass := domain.CalculationClass("HALF")

	testCases := []struct {
		name      string
		accountID int64
		arg       domain.AddIncomeParams
		wantErr   error
	}{
		{"NotANumber", account.ID, domain.AddIncomeParams{Amount: "abc"}, domain.ErrInvalidAmount},
		{"Zero", account.ID, domain.AddIncomeParams{Amount: "0"}, domain.ErrNonPositiveAmount},
		{"Negative", account.ID, domain.AddIncomeParams{Amount: "-5"}, domain.ErrNonPositiveAmount},
		{"BadClass", account.ID, domain.AddIncomeParams{Amount: "5", CalculationClass: &badClass}, domain.ErrInvalidCalculationClass},
		{"UnknownAccount", account.ID + 1, domain.AddIncomeParams{Amount: "5"}, domain.ErrAccountNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.AddIncome(ctx, tc.accountID, tc.arg)
			require.ErrorIs(t, err, tc.wantErr)

			_, err = service.AddPayment(ctx, tc.accountID, tc.arg.Amount)
			if tc.arg.CalculationClass == nil {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	b, err := service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "0", "0", "0", "0")

	_, err = service.ComputeBalance(ctx, account.ID+1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestOwnership(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	owner := helpers.SeedAccount(t, db, true, false)
	stranger := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	income, err := service.AddIncome(ctx, owner.ID, domain.AddIncomeParams{Amount: "1000"})
	require.NoError(t, err)

	payment, err := service.AddPayment(ctx, owner.ID, "10")
	require.NoError(t, err)

	amount := "1"

	_, err = service.GetIncome(ctx, stranger.ID, income.ID)
	require.ErrorIs(t, err, domain.ErrIncomeNotFound)

	_, err = service.EditIncome(ctx, stranger.ID, income.ID, domain.EditIncomeParams{Amount: &amount})
	require.ErrorIs(t, err, domain.ErrIncomeNotFound)

	deleted, err := service.DeleteIncome(ctx, stranger.ID, income.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = service.GetPayment(ctx, stranger.ID, payment.ID)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)

	_, err = service.EditPayment(ctx, stranger.ID, payment.ID, amount)
	require.ErrorIs(t, err, domain.ErrPaymentNotFound)

	deleted, err = service.DeletePayment(ctx, stranger.ID, payment.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	b, err := service.ComputeBalance(ctx, owner.ID)
	require.NoError(t, err)
	requireBalance(t, b, "1000", "100", "10", "90")
}

func TestEditAndDelete(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	income, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "1000", Description: "salary"})
	require.NoError(t, err)

	payment, err := service.AddPayment(ctx, account.ID, "10")
	require.NoError(t, err)

	amount := "2000"
	class := domain.TwentyPercent

	edited, err := service.EditIncome(ctx, account.ID, income.ID, domain.EditIncomeParams{
		Amount:           &amount,
		CalculationClass: &class,
	})
	require.NoError(t, err)
	requireDecimal(t, "2000", edited.Amount)
	require.Equal(t, domain.TwentyPercent, edited.CalculationClass)
	require.Equal(t, "salary", edited.Description)

	bad := "-1"
	_, err = service.EditIncome(ctx, account.ID, income.ID, domain.EditIncomeParams{Amount: &bad})
	require.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	editedPayment, err := service.EditPayment(ctx, account.ID, payment.ID, "20")
	require.NoError(t, err)
	requireDecimal(t, "20", editedPayment.Amount)

	_, err = service.EditPayment(ctx, account.ID, payment.ID, "zero")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	b, err := service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "2000", "400", "20", "380")

	deleted, err := service.DeleteIncome(ctx, account.ID, income.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = service.DeleteIncome(ctx, account.ID, income.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = service.DeletePayment(ctx, account.ID, payment.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	b, err = service.ComputeBalance(ctx, account.ID)
	require.NoError(t, err)
	requireBalance(t, b, "0", "0", "0", "0")
}

func TestHistoryPagination(t *testing.T) {
	t.Parallel()

	service, _, db := setup(t)
	account := helpers.SeedAccount(t, db, true, false)
	ctx := context.Background()

	// Alternate kinds: income, payment, income, ...
	var want []int64
	for i := 0; i < 7; i++ {
		if i%2 == 0 {
			e, err := service.AddIncome(ctx, account.ID, domain.AddIncomeParams{Amount: "100"})
			require.NoError(t, err)
			want = append(want, e.ID)
		} else {
			e, err := service.AddPayment(ctx, account.ID, "1")
			require.NoError(t, err)
			want = append(want, e.ID)
		}
	}

	var got []int64
	for page := int32(1); page <= 3; page++ {
		h, err := service.History(ctx, account.ID, page, 3)
		require.NoError(t, err)
		require.EqualValues(t, 7, h.TotalEntries)
		require.EqualValues(t, 3, h.TotalPages)

		for _, e := range h.Entries {
			got = append(got, e.ID)
		}
	}

	require.Len(t, got, 7)

	for i := range want {
		require.Equal(t, want[len(want)-1-i], got[i])
	}

	for _, tc := range []struct{ page, size int32 }{{0, 10}, {1, 0}, {1, 101}, {-1, 10}} {
		_, err := service.History(ctx, account.ID, tc.page, tc.size)
		require.ErrorIs(t, err, domain.ErrInvalidPage)
	}

	_, err := service.History(ctx, account.ID+1, 1, 10)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
