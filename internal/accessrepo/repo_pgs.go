// Package accessrepo manages repository layer of access requests.
package accessrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haim1120/maaserbot/internal/accountrepo"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/errorspkg"

	"github.com/rs/zerolog"
)

// ErrDuplicatePending indicates that the identity already has a pending request.
var ErrDuplicatePending = errors.New("pending access request already exists")

// RepoPGS facilitates access request repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *dbpkg.DB
}

// NewRepoPGS returns access request RepoPGS with connection to start transactions.
func NewRepoPGS(db *dbpkg.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, identity, username, first_name, last_name, status, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.AccessRequest, error) {
	var ar domain.AccessRequest

	err := row.Scan(
		&ar.ID,
		&ar.Identity,
		&ar.Profile.Username,
		&ar.Profile.FirstName,
		&ar.Profile.LastName,
		&ar.Status,
		dbpkg.Time(&ar.CreatedAt),
	)

	return ar, err
}

const createQuery = `
INSERT INTO
    access_requests (identity, username, first_name, last_name, status, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns

// Create stores a new pending request.
//
// It returns ErrDuplicatePending when the identity already has a pending request.
func (r *RepoPGS) Create(ctx context.Context, identity string, p domain.Profile) (domain.AccessRequest, error) {
	l := zerolog.Ctx(ctx)

	ar, err := scan(r.db.QueryRowContext(ctx, createQuery,
		identity,
		p.Username,
		p.FirstName,
		p.LastName,
		string(domain.AccessPending),
		time.Now().UTC(),
	))
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			l.Info().Err(err).Str("identity", identity).Send()
			return ar, ErrDuplicatePending
		}

		l.Error().Err(err).Send()

		return ar, errorspkg.ErrInternal
	}

	return ar, nil
}

const getQuery = `
SELECT ` + columns + `
FROM access_requests
WHERE id = $1
`

// Get returns the request with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.AccessRequest, error) {
	l := zerolog.Ctx(ctx)

	ar, err := scan(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Int64("request_id", id).Send()
			return ar, domain.ErrAccessRequestNotFound
		}

		l.Error().Err(err).Send()

		return ar, errorspkg.ErrInternal
	}

	return ar, nil
}

const getPendingQuery = `
SELECT ` + columns + `
FROM access_requests
WHERE identity = $1 AND status = 'pending'
`

// GetPending returns the pending request of the identity.
func (r *RepoPGS) GetPending(ctx context.Context, identity string) (domain.AccessRequest, error) {
	l := zerolog.Ctx(ctx)

	ar, err := scan(r.db.QueryRowContext(ctx, getPendingQuery, identity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ar, domain.ErrAccessRequestNotFound
		}

		l.Error().Err(err).Send()

		return ar, errorspkg.ErrInternal
	}

	return ar, nil
}

const listPendingQuery = `
SELECT ` + columns + `
FROM access_requests
WHERE status = 'pending'
ORDER BY created_at, id
`

const countPendingQuery = `
SELECT COUNT(*)
FROM access_requests
WHERE status = 'pending'
`

// CountPending returns the number of pending requests.
func (r *RepoPGS) CountPending(ctx context.Context) (int64, error) {
	var n int64

	if err := r.db.QueryRowContext(ctx, countPendingQuery).Scan(&n); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

// ListPending returns all pending requests, oldest first.
func (r *RepoPGS) ListPending(ctx context.Context) ([]domain.AccessRequest, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listPendingQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.AccessRequest{}

	for rows.Next() {
		ar, err := scan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, ar)
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

const resolveQuery = `
UPDATE access_requests
SET status = $1
WHERE id = $2 AND status = 'pending'
RETURNING ` + columns

func resolve(ctx context.Context, db dbpkg.SQLInterface, id int64, status domain.AccessRequestStatus) (domain.AccessRequest, bool, error) {
	l := zerolog.Ctx(ctx)

	ar, err := scan(db.QueryRowContext(ctx, resolveQuery, string(status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Int64("request_id", id).Msg("access request is not pending")
			return ar, false, nil
		}

		l.Error().Err(err).Send()

		return ar, false, errorspkg.ErrInternal
	}

	return ar, true, nil
}

// Reject moves a pending request to rejected.
//
// It returns false when the request does not exist or is no longer pending.
func (r *RepoPGS) Reject(ctx context.Context, id int64) (bool, error) {
	_, ok, err := resolve(ctx, r.db, id, domain.AccessRejected)
	return ok, err
}

// Approve moves a pending request to approved and approves the requesting identity.
//
// The account is created when the identity has none. Everything happens within a single db
// transaction. It returns false when the request does not exist or is no longer pending.
func (r *RepoPGS) Approve(ctx context.Context, id int64) (domain.Account, bool, error) {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, false, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	ar, ok, err := resolve(ctx, tx, id, domain.AccessApproved)
	if err != nil || !ok {
		return domain.Account{}, false, err
	}

	accountRepo := accountrepo.NewTxRepoPGS(tx)

	_, err = accountRepo.GetOrCreate(ctx, domain.CreateAccountParams{
		Identity: ar.Identity,
		Profile:  ar.Profile,
	})
	if err != nil {
		return domain.Account{}, false, err
	}

	account, err := accountRepo.SetApproved(ctx, ar.Identity, true)
	if err != nil {
		return domain.Account{}, false, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.Account{}, false, errorspkg.ErrInternal
	}

	return account, true, nil
}
