// Package paymentrepo manages repository layer of payment entries.
package paymentrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/errorspkg"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates payment repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns payment RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, account_id, amount, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.PaymentEntry, error) {
	var e domain.PaymentEntry

	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Amount,
		dbpkg.Time(&e.CreatedAt),
	)

	return e, err
}

const createQuery = `
INSERT INTO
    payment_entries (account_id, amount, created_at)
VALUES
    ($1, $2, $3)
RETURNING ` + columns

// Create records the payment and then returns it.
func (r *RepoPGS) Create(ctx context.Context, accountID int64, amount decimal.Decimal) (domain.PaymentEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, createQuery, accountID, amount, time.Now().UTC()))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %v, %v)", accountID, amount)
		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const getQuery = `
SELECT ` + columns + `
FROM payment_entries
WHERE id = $1 AND account_id = $2
`

// Get returns the payment with the given id if it belongs to the account.
func (r *RepoPGS) Get(ctx context.Context, accountID, id int64) (domain.PaymentEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, getQuery, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("payment_id", id).Send()
			return e, domain.ErrPaymentNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const updateQuery = `
UPDATE payment_entries
SET amount = $1
WHERE id = $2 AND account_id = $3
RETURNING ` + columns

// Update changes the amount of the payment if it belongs to the account.
func (r *RepoPGS) Update(ctx context.Context, accountID, id int64, amount decimal.Decimal) (domain.PaymentEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scan(r.db.QueryRowContext(ctx, updateQuery, amount, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("payment_id", id).Send()
			return e, domain.ErrPaymentNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const deleteQuery = `
DELETE FROM payment_entries
WHERE id = $1 AND account_id = $2
`

// Delete removes the payment if it belongs to the account and reports whether anything was removed.
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
DELETE FROM payment_entries
WHERE account_id = $1
`

// DeleteAll removes every payment of the account and returns how many were removed.
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
FROM payment_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// List returns the specified number of payments of the account, newest first.
func (r *RepoPGS) List(ctx context.Context, accountID int64, limit, offset int32) ([]domain.PaymentEntry, error) {
	return r.list(ctx, listQuery, accountID, limit, offset)
}

const listAllQuery = `
SELECT ` + columns + `
FROM payment_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
`

// ListAll returns every payment of the account, newest first.
func (r *RepoPGS) ListAll(ctx context.Context, accountID int64) ([]domain.PaymentEntry, error) {
	return r.list(ctx, listAllQuery, accountID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.PaymentEntry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.PaymentEntry{}

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
FROM payment_entries
WHERE account_id = $1
`

// Count returns the number of payments of the account.
func (r *RepoPGS) Count(ctx context.Context, accountID int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64
	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}
