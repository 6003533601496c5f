// Package incomerepo manages repository layer of income entries.
package incomerepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// RepoPGS facilitates income repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns income RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, account_id, amount, calculation_class, description, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.IncomeEntry, error) {
	var e domain.IncomeEntry

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Amount,
		&e.CalculationClass,
		&e.Description,
		dbpkg.Time(&e.CreatedAt),
	)

	return e, err
}

const createQuery = `
INSERT INTO
    income_entries (account_id, amount, calculation_class, description, created_at)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING ` + columns

// Create records the income and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateIncomeParams) (domain.IncomeEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Amount,
		string(arg.CalculationClass),
		arg.Description,
		time.Now().UTC(),
	))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)
		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const getQuery = `
SELECT ` + columns + `
FROM income_entries
WHERE id = $1 AND account_id = $2
`

// Get returns the income with the given id if it belongs to the account.
func (r *RepoPGS) Get(ctx context.Context, accountID, id int64) (domain.IncomeEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, getQuery, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("income_id", id).Send()
			return e, domain.ErrIncomeNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const updateQuery = `
UPDATE income_entries
SET amount = COALESCE($1, amount),
    description = COALESCE($2, description),
    calculation_class = COALESCE($3, calculation_class)
WHERE id = $4 AND account_id = $5
RETURNING ` + columns

// Update changes the given fields of the income if it belongs to the account.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateIncomeParams) (domain.IncomeEntry, error) {
	l := zerolog.Ctx(ctx)

	var amount, description, class any
	if arg.Amount != nil {
		amount = arg.Amount.String()
	}

	if arg.Description != nil {
		description = *arg.Description
	}

	if arg.CalculationClass != nil {
		class = string(*arg.CalculationClass)
	}

	e, err := scan(r.db.QueryRowContext(ctx, updateQuery, amount, description, class, arg.ID, arg.AccountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("income_id", arg.ID).Send()
			return e, domain.ErrIncomeNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const deleteQuery = `
DELETE FROM income_entries
WHERE id = $1 AND account_id = $2
`

// Delete removes the income if it belongs to the account and reports whether anything was removed.
func (r *RepoPGS) Delete(ctx context.Context, accountID, id int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return n > 0, nil
}

const deleteAllQuery = `
DELETE FROM income_entries
WHERE account_id = $1
`

// DeleteAll removes every income of the account and returns how many were removed.
func (r *RepoPGS) DeleteAll(ctx context.Context, accountID int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteAllQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const listQuery = `
SELECT ` + columns + `
FROM income_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns the specified number of incomes of the account, newest first.
func (r *RepoPGS) List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.IncomeEntry, error) {
	return r.list(ctx, listQuery, accountID, limit, offset)
}

const listAllQuery = `
SELECT ` + columns + `
FROM income_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
`

// ListAll returns every income of the account, newest first.
func (r *RepoPGS) ListAll(ctx context.Context, accountID int64) ([]domain.IncomeEntry, error) {
	return r.list(ctx, listAllQuery, accountID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.IncomeEntry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.IncomeEntry{}

	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
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

const countQuery = `
SELECT count(*)
FROM income_entries
WHERE account_id = $1
`

// Count returns the number of incomes of the account.
func (r *RepoPGS) Count(ctx context.Context, accountID int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64
	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}
