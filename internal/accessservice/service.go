// Package accessservice manages business logic layer of access requests.
package accessservice

import (
	"context"
	"errors"

	"github.com/haim1120/maaserbot/internal/accessrepo"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by access service layer.
type Repo interface {
	Create(ctx context.Context, identity string, p domain.Profile) (domain.AccessRequest, error)
	Get(ctx context.Context, id int64) (domain.AccessRequest, error)
	GetPending(ctx context.Context, identity string) (domain.AccessRequest, error)
	ListPending(ctx context.Context) ([]domain.AccessRequest, error)
	CountPending(ctx context.Context) (int64, error)
	Approve(ctx context.Context, id int64) (domain.Account, bool, error)
	Reject(ctx context.Context, id int64) (bool, error)
}

// AccountService provides the admin check needed by access service layer.
type AccountService interface {
	RequireAdmin(ctx context.Context, actorID int64) (domain.Account, error)
}

// Service facilitates access request service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns access service struct to manage access request business logic.
func New(ar Repo, as AccountService) *Service {
	return &Service{
		repo:           ar,
		accountService: as,
	}
}

// Create files an access request for the identity.
//
// It is idempotent: while a request is pending the same request is returned.
func (s *Service) Create(ctx context.Context, identity string, p domain.Profile) (domain.AccessRequest, error) {
	pending, err := s.repo.GetPending(ctx, identity)
	if err == nil {
		return pending, nil
	}

	if !errors.Is(err, domain.ErrAccessRequestNotFound) {
		return domain.AccessRequest{}, err
	}

	created, err := s.repo.Create(ctx, identity, p)
	if errors.Is(err, accessrepo.ErrDuplicatePending) {
		// Lost a race with a concurrent request of the same identity.
		return s.repo.GetPending(ctx, identity)
	}

	if err != nil {
		return domain.AccessRequest{}, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("request_id", created.ID).
		Str("identity", identity).
		Msg("access request created")

	return created, nil
}

// Get returns the request with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.AccessRequest, error) {
	return s.repo.Get(ctx, id)
}

// ListPending returns the pending requests, oldest first, to an admin.
func (s *Service) ListPending(ctx context.Context, actorID int64) ([]domain.AccessRequest, error) {
	if _, err := s.accountService.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.ListPending(ctx)
}

// CountPending returns the number of pending requests to an admin.
func (s *Service) CountPending(ctx context.Context, actorID int64) (int64, error) {
	if _, err := s.accountService.RequireAdmin(ctx, actorID); err != nil {
		return 0, err
	}

	return s.repo.CountPending(ctx)
}

// Approve approves a pending request and the requesting identity.
//
// It returns false without error when the request does not exist or is not pending.
func (s *Service) Approve(ctx context.Context, actorID, requestID int64) (bool, error) {
	admin, err := s.accountService.RequireAdmin(ctx, actorID)
	if err != nil {
		return false, err
	}

	account, ok, err := s.repo.Approve(ctx, requestID)
	if err != nil || !ok {
		return false, err
	}

	zerolog.Ctx(ctx).Info().
		Str("admin", admin.Identity).
		Int64("request_id", requestID).
		Str("identity", account.Identity).
		Msg("access request approved")

	return true, nil
}

// Reject rejects a pending request.
//
// It returns false without error when the request does not exist or is not pending.
func (s *Service) Reject(ctx context.Context, actorID, requestID int64) (bool, error) {
	admin, err := s.accountService.RequireAdmin(ctx, actorID)
	if err != nil {
		return false, err
	}

	ok, err := s.repo.Reject(ctx, requestID)
	if err != nil || !ok {
		return false, err
	}

	zerolog.Ctx(ctx).Info().
		Str("admin", admin.Identity).
		Int64("request_id", requestID).
		Msg("access request rejected")

	return true, nil
}
