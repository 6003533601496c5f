// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/pkg/currencypkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
type Repo interface {
	GetOrCreate(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByIdentity(ctx context.Context, identity string) (domain.Account, error)
	UpdatePreferences(ctx context.Context, id int64, arg domain.UpdatePreferencesParams) (domain.Account, error)
	SetApproved(ctx context.Context, identity string, approved bool) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	EraseData(ctx context.Context, id int64) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo          Repo
	adminIdentity string
}

// New returns account service struct to manage account business logic.
//
// The account of adminIdentity is created approved and with admin rights.
func New(ar Repo, adminIdentity string) *Service {
	return &Service{
		repo:          ar,
		adminIdentity: adminIdentity,
	}
}

// GetOrCreate returns the account of the identity, registering it on first contact.
func (s *Service) GetOrCreate(ctx context.Context, identity string, p domain.Profile) (domain.Account, error) {
	bootstrap := s.adminIdentity != "" && identity == s.adminIdentity

	return s.repo.GetOrCreate(ctx, domain.CreateAccountParams{
		Identity:   identity,
		Profile:    p,
		IsApproved: bootstrap,
		IsAdmin:    bootstrap,
	})
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// UpdatePreferences validates and stores the given preferences.
func (s *Service) UpdatePreferences(ctx context.Context, id int64, arg domain.UpdatePreferencesParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if arg.CalculationClass != nil && !arg.CalculationClass.Valid() {
		l.Info().Str("calculation_class", string(*arg.CalculationClass)).Send()
		return domain.Account{}, domain.ErrInvalidCalculationClass
	}

	if arg.Currency != nil && !currencypkg.IsSupportedCurrency(*arg.Currency) {
		l.Info().Str("currency", *arg.Currency).Send()
		return domain.Account{}, domain.ErrInvalidCurrency
	}

	return s.repo.UpdatePreferences(ctx, id, arg)
}

// EraseAllData removes all incomes and payments of the account and resets its preferences.
func (s *Service) EraseAllData(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.repo.EraseData(ctx, id)
	if err != nil {
		return account, err
	}

	zerolog.Ctx(ctx).Info().Int64("account_id", id).Msg("account data erased")

	return account, nil
}

// RequireAdmin returns the actor account if it has admin rights.
func (s *Service) RequireAdmin(ctx context.Context, actorID int64) (domain.Account, error) {
	actor, err := s.repo.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Account{}, domain.ErrNotAdmin
		}

		return domain.Account{}, err
	}

	if !actor.IsAdmin {
		zerolog.Ctx(ctx).Warn().Int64("account_id", actorID).Msg("admin action denied")
		return domain.Account{}, domain.ErrNotAdmin
	}

	return actor, nil
}

// List returns the accounts to an admin, optionally only the approved or unapproved ones.
func (s *Service) List(ctx context.Context, actorID int64, arg domain.ListAccountsParams) ([]domain.Account, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	accounts, err := s.repo.List(ctx)
	if err != nil || arg.Approved == nil {
		return accounts, err
	}

	filtered := []domain.Account{}

	for _, a := range accounts {
		if a.IsApproved == *arg.Approved {
			filtered = append(filtered, a)
		}
	}

	return filtered, nil
}

// SetApproval grants or revokes approval of the account with the given identity.
//
// It returns false without error when the target does not exist or when the change would
// revoke the approval of an admin.
func (s *Service) SetApproval(ctx context.Context, actorID int64, identity string, approved bool) (bool, error) {
	l := zerolog.Ctx(ctx)

	actor, err := s.RequireAdmin(ctx, actorID)
	if err != nil {
		return false, err
	}

	target, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}

		return false, err
	}

	if target.IsAdmin && !approved {
		l.Warn().Str("identity", identity).Msg("refusing to revoke admin approval")
		return false, nil
	}

	if _, err := s.repo.SetApproved(ctx, identity, approved); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}

		return false, err
	}

	l.Info().
		Str("admin", actor.Identity).
		Str("identity", identity).
		Bool("approved", approved).
		Msg("account approval changed")

	return true, nil
}
