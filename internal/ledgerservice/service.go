// Package ledgerservice manages business logic layer of incomes, payments and balances.
package ledgerservice

import (
	"context"
	"math"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// IncomeRepo provides income data access layer interface needed by ledger service layer.
type IncomeRepo interface {
	Create(ctx context.Context, arg domain.CreateIncomeParams) (domain.IncomeEntry, error)
	Get(ctx context.Context, accountID, id int64) (domain.IncomeEntry, error)
	Update(ctx context.Context, arg domain.UpdateIncomeParams) (domain.IncomeEntry, error)
	Delete(ctx context.Context, accountID, id int64) (bool, error)
	List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.IncomeEntry, error)
	ListAll(ctx context.Context, accountID int64) ([]domain.IncomeEntry, error)
	Count(ctx context.Context, accountID int64) (int64, error)
}

// PaymentRepo provides payment data access layer interface needed by ledger service layer.
type PaymentRepo interface {
	Create(ctx context.Context, accountID int64, amount decimal.Decimal) (domain.PaymentEntry, error)
	Get(ctx context.Context, accountID, id int64) (domain.PaymentEntry, error)
	Update(ctx context.Context, accountID, id int64, amount decimal.Decimal) (domain.PaymentEntry, error)
	Delete(ctx context.Context, accountID, id int64) (bool, error)
	List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.PaymentEntry, error)
	ListAll(ctx context.Context, accountID int64) ([]domain.PaymentEntry, error)
	Count(ctx context.Context, accountID int64) (int64, error)
}

// AccountService provides the account lookup needed by ledger service layer.
type AccountService interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	incomes        IncomeRepo
	payments       PaymentRepo
	accountService AccountService
}

// New returns ledger service struct to manage ledger business logic.
func New(ir IncomeRepo, pr PaymentRepo, as AccountService) *Service {
	return &Service{
		incomes:        ir,
		payments:       pr,
		accountService: as,
	}
}

func parseAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	d, err := domain.ParseAmount(amount)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("amount", amount).Send()
		return decimal.Decimal{}, err
	}

	return d, nil
}

// AddIncome records an income of the account.
//
// When no calculation class is given, the current default of the account is captured.
func (s *Service) AddIncome(ctx context.Context, accountID int64, arg domain.AddIncomeParams) (domain.IncomeEntry, error) {
	amount, err := parseAmount(ctx, arg.Amount)
	if err != nil {
		return domain.IncomeEntry{}, err
	}

	if arg.CalculationClass != nil && !arg.CalculationClass.Valid() {
		return domain.IncomeEntry{}, domain.ErrInvalidCalculationClass
	}

	account, err := s.accountService.Get(ctx, accountID)
	if err != nil {
		return domain.IncomeEntry{}, err
	}

	class := account.CalculationClass
	if arg.CalculationClass != nil {
		class = *arg.CalculationClass
	}

	return s.incomes.Create(ctx, domain.CreateIncomeParams{
		AccountID:        account.ID,
		Amount:           amount,
		CalculationClass: class,
		Description:      arg.Description,
	})
}

// AddPayment records a payment of the account.
//
// Payments are not capped by the remaining obligation here.
func (s *Service) AddPayment(ctx context.Context, accountID int64, amount string) (domain.PaymentEntry, error) {
	d, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.PaymentEntry{}, err
	}

	account, err := s.accountService.Get(ctx, accountID)
	if err != nil {
		return domain.PaymentEntry{}, err
	}

	return s.payments.Create(ctx, account.ID, d)
}

// GetIncome returns the income if it belongs to the account.
func (s *Service) GetIncome(ctx context.Context, accountID, incomeID int64) (domain.IncomeEntry, error) {
	return s.incomes.Get(ctx, accountID, incomeID)
}

// GetPayment returns the payment if it belongs to the account.
func (s *Service) GetPayment(ctx context.Context, accountID, paymentID int64) (domain.PaymentEntry, error) {
	return s.payments.Get(ctx, accountID, paymentID)
}

// EditIncome changes the given fields of an income owned by the account.
func (s *Service) EditIncome(ctx context.Context, accountID, incomeID int64, arg domain.EditIncomeParams) (domain.IncomeEntry, error) {
	update := domain.UpdateIncomeParams{
		ID:               incomeID,
		AccountID:        accountID,
		Description:      arg.Description,
		CalculationClass: arg.CalculationClass,
	}

	if arg.Amount != nil {
		amount, err := parseAmount(ctx, *arg.Amount)
		if err != nil {
			return domain.IncomeEntry{}, err
		}

		update.Amount = &amount
	}

	if arg.CalculationClass != nil && !arg.CalculationClass.Valid() {
		return domain.IncomeEntry{}, domain.ErrInvalidCalculationClass
	}

	return s.incomes.Update(ctx, update)
}

// EditPayment changes the amount of a payment owned by the account.
func (s *Service) EditPayment(ctx context.Context, accountID, paymentID int64, amount string) (domain.PaymentEntry, error) {
	d, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.PaymentEntry{}, err
	}

	return s.payments.Update(ctx, accountID, paymentID, d)
}

// DeleteIncome removes an income owned by the account and reports whether it existed.
func (s *Service) DeleteIncome(ctx context.Context, accountID, incomeID int64) (bool, error) {
	return s.incomes.Delete(ctx, accountID, incomeID)
}

// DeletePayment removes a payment owned by the account and reports whether it existed.
func (s *Service) DeletePayment(ctx context.Context, accountID, paymentID int64) (bool, error) {
	return s.payments.Delete(ctx, accountID, paymentID)
}

// ComputeBalance derives the obligation status of the account from its entries.
func (s *Service) ComputeBalance(ctx context.Context, accountID int64) (domain.Balance, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return domain.Balance{}, err
	}

	incomes, err := s.incomes.ListAll(ctx, accountID)
	if err != nil {
		return domain.Balance{}, err
	}

	payments, err := s.payments.ListAll(ctx, accountID)
	if err != nil {
		return domain.Balance{}, err
	}

	return domain.NewBalance(incomes, payments), nil
}

// History returns a page of the merged income and payment history, newest first.
func (s *Service) History(ctx context.Context, accountID int64, page, pageSize int32) (domain.History, error) {
	if page < 1 || pageSize < 1 || pageSize > domain.MaxHistoryPageSize || page > math.MaxInt32/pageSize {
		return domain.History{}, domain.ErrInvalidPage
	}

	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return domain.History{}, err
	}

	// The requested page is among the newest page*pageSize entries of each kind.
	limit := page * pageSize

	incomes, err := s.incomes.List(ctx, accountID, limit, 0)
	if err != nil {
		return domain.History{}, err
	}

	payments, err := s.payments.List(ctx, accountID, limit, 0)
	if err != nil {
		return domain.History{}, err
	}

	incomeCount, err := s.incomes.Count(ctx, accountID)
	if err != nil {
		return domain.History{}, err
	}

	paymentCount, err := s.payments.Count(ctx, accountID)
	if err != nil {
		return domain.History{}, err
	}

	return domain.NewHistory(incomes, payments, incomeCount+paymentCount, page, pageSize), nil
}
