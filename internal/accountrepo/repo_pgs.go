// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/incomerepo"
	"github.com/haim1120/maaserbot/internal/paymentrepo"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *dbpkg.DB
}

// NewTxRepoPGS returns account RepoPGS bound to a running transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns account RepoPGS with connection to start transactions.
func NewRepoPGS(db *dbpkg.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, identity, username, first_name, last_name, calculation_class, currency, is_approved, is_admin, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Identity,
		&a.Profile.Username,
		&a.Profile.FirstName,
		&a.Profile.LastName,
		&a.CalculationClass,
		&a.Currency,
		&a.IsApproved,
		&a.IsAdmin,
		dbpkg.Time(&a.CreatedAt),
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (identity, username, first_name, last_name, is_approved, is_admin, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (identity) DO NOTHING
`

// GetOrCreate inserts the account unless the identity is already registered and returns the stored account.
//
// Concurrent calls for the same identity converge on a single row. The stored profile and flags
// of an existing account are left unchanged.
func (r *RepoPGS) GetOrCreate(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, createQuery,
		arg.Identity,
		arg.Profile.Username,
		arg.Profile.FirstName,
		arg.Profile.LastName,
		arg.IsApproved,
		arg.IsAdmin,
		time.Now().UTC(),
	)
	if err != nil {
		l.Error().Err(err).Msgf("GetOrCreate(ctx context.Context, %+v)", arg)
		return domain.Account{}, errorspkg.ErrInternal
	}

	return r.GetByIdentity(ctx, arg.Identity)
}

const getQuery = `
SELECT ` + columns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scan(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("account_id", id).Send()
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByIdentityQuery = `
SELECT ` + columns + `
FROM accounts
WHERE identity = $1
`

// GetByIdentity returns the account registered for the external identity.
func (r *RepoPGS) GetByIdentity(ctx context.Context, identity string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scan(r.db.QueryRowContext(ctx, getByIdentityQuery, identity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Str("identity", identity).Send()
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const updatePreferencesQuery = `
UPDATE accounts
SET calculation_class = COALESCE($1, calculation_class),
    currency = COALESCE($2, currency)
WHERE id = $3
RETURNING ` + columns

// UpdatePreferences changes the given preferences and returns the changed account.
func (r *RepoPGS) UpdatePreferences(ctx context.Context, id int64, arg domain.UpdatePreferencesParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var class, currency any
	if arg.CalculationClass != nil {
		class = string(*arg.CalculationClass)
	}

	if arg.Currency != nil {
		currency = *arg.Currency
	}

	a, err := scan(r.db.QueryRowContext(ctx, updatePreferencesQuery, class, currency, id))
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const setApprovedQuery = `
UPDATE accounts
SET is_approved = $1
WHERE identity = $2
RETURNING ` + columns

// SetApproved changes the approval flag of the account with the given identity.
func (r *RepoPGS) SetApproved(ctx context.Context, identity string, approved bool) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scan(r.db.QueryRowContext(ctx, setApprovedQuery, approved, identity))
	if err != nil {
		l.Error().Err(err).Send()

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT ` + columns + `
FROM accounts
ORDER BY id
`

// List returns all the accounts.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const resetPreferencesQuery = `
UPDATE accounts
SET calculation_class = $1,
    currency = $2
WHERE id = $3
RETURNING ` + columns

// EraseData removes all the ledger entries of the account and resets its preferences.
//
// It runs within a single db transaction, so either everything is erased or nothing is.
// The account itself and its authorization flags survive.
func (r *RepoPGS) EraseData(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	if _, err := NewTxRepoPGS(tx).Get(ctx, id); err != nil {
		return domain.Account{}, err
	}

	if _, err := incomerepo.NewRepoPGS(tx).DeleteAll(ctx, id); err != nil {
		return domain.Account{}, err
	}

	if _, err := paymentrepo.NewRepoPGS(tx).DeleteAll(ctx, id); err != nil {
		return domain.Account{}, err
	}

	a, err := scan(tx.QueryRowContext(ctx, resetPreferencesQuery,
		string(domain.DefaultCalculationClass),
		domain.DefaultCurrency,
		id,
	))
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}
