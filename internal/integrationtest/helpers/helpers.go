// Package helpers provides seed data for tests.
package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haim1120/maaserbot/internal/accountrepo"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/incomerepo"
	"github.com/haim1120/maaserbot/internal/paymentrepo"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// RandomProfile returns a random profile.
func RandomProfile() domain.Profile {
	return domain.Profile{
		Username:  randompkg.Username(),
		FirstName: randompkg.String(6),
		LastName:  randompkg.String(8),
	}
}

// RandomAccount returns a random approved account with default preferences.
func RandomAccount() domain.Account {
	return domain.Account{
		ID:               int64(randompkg.IntBetween(1, 1000)),
		Identity:         randompkg.Identity(),
		Profile:          RandomProfile(),
		CalculationClass: domain.DefaultCalculationClass,
		Currency:         domain.DefaultCurrency,
		IsApproved:       true,
		CreatedAt:        time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomIncome returns a random income of the account.
func RandomIncome(accountID int64) domain.IncomeEntry {
	return domain.IncomeEntry{
		ID:               int64(randompkg.IntBetween(1, 1000)),
		AccountID:        accountID,
		Amount:           decimal.RequireFromString(randompkg.MoneyAmountBetween(100, 10_000)),
		CalculationClass: domain.TenPercent,
		Description:      randompkg.String(12),
		CreatedAt:        time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomPayment returns a random payment of the account.
func RandomPayment(accountID int64) domain.PaymentEntry {
	return domain.PaymentEntry{
		ID:        int64(randompkg.IntBetween(1, 1000)),
		AccountID: accountID,
		Amount:    decimal.RequireFromString(randompkg.MoneyAmountBetween(1, 100)),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// SeedAccount creates a random account in the db.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, approved, admin bool) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		Identity:   randompkg.Identity(),
		Profile:    RandomProfile(),
		IsApproved: approved,
		IsAdmin:    admin,
	}

	account, err := accountrepo.NewTxRepoPGS(db).GetOrCreate(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.GetOrCreate(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedIncome creates an income of the account in the db.
func SeedIncome(t *testing.T, db dbpkg.SQLInterface, accountID int64, amount string, class domain.CalculationClass) domain.IncomeEntry {
	t.Helper()

	arg := domain.CreateIncomeParams{
		AccountID:        accountID,
		Amount:           decimal.RequireFromString(amount),
		CalculationClass: class,
		Description:      randompkg.String(10),
	}

	income, err := incomerepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("incomeRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return income
}

// SeedPayment creates a payment of the account in the db.
func SeedPayment(t *testing.T, db dbpkg.SQLInterface, accountID int64, amount string) domain.PaymentEntry {
	t.Helper()

	payment, err := paymentrepo.NewRepoPGS(db).Create(context.Background(), accountID, decimal.RequireFromString(amount))
	if err != nil {
		t.Fatalf("paymentRepo.Create(context.Background(), %v, %v) returned error: %v", accountID, amount, err)
	}

	return payment
}

// FailUpdates installs a SQLite trigger that aborts every update of the table.
func FailUpdates(t *testing.T, db dbpkg.SQLInterface, table string) {
	t.Helper()

	query := fmt.Sprintf(`CREATE TRIGGER fail_%[1]s_update BEFORE UPDATE ON %[1]s
BEGIN
    SELECT RAISE(ABORT, 'update of %[1]s is disabled');
END`, table)

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("db.ExecContext(%q) returned error: %v", query, err)
	}
}
