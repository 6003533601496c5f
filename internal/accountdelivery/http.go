// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/middleware"
	"github.com/haim1120/maaserbot/pkg/errorspkg"
	"github.com/haim1120/maaserbot/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	UpdatePreferences(ctx context.Context, id int64, arg domain.UpdatePreferencesParams) (domain.Account, error)
	EraseAllData(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context, actorID int64, arg domain.ListAccountsParams) ([]domain.Account, error)
	SetApproval(ctx context.Context, actorID int64, identity string, approved bool) (bool, error)
}

// AccessService provides the access request count shown to admins along the accounts.
type AccessService interface {
	CountPending(ctx context.Context, actorID int64) (int64, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service       Service
	accessService AccessService
}

// NewHandler returns account handler.
func NewHandler(as Service, acs AccessService) Handler {
	return Handler{service: as, accessService: acs}
}

type data struct {
	Account domain.Account `json:"account"`
}

type dataAccounts struct {
	Accounts        []domain.Account `json:"accounts"`
	PendingRequests int64            `json:"pending_requests"`
}

type dataApproval struct {
	Identity string `json:"identity"`
	Approved bool   `json:"approved"`
	Updated  bool   `json:"updated"`
}

func respondError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCalculationClass), errors.Is(err, domain.ErrInvalidCurrency):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrNotAdmin):
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case errors.Is(err, domain.ErrAccountNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func currentAccount(gctx *gin.Context) (domain.Account, bool) {
	account, ok := middleware.CurrentAccount(gctx)
	if !ok {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}

	return account, ok
}

// Me handles http request to get the caller's account.
func (h *Handler) Me(gctx *gin.Context) {
	account, ok := currentAccount(gctx)
	if !ok {
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

type updatePreferencesRequest struct {
	CalculationClass *domain.CalculationClass `json:"calculation_class" binding:"omitempty,calcclass"`
	Currency         *string                  `json:"currency" binding:"omitempty,currency"`
}

// UpdatePreferences handles http request to change the caller's calculation class or currency.
func (h *Handler) UpdatePreferences(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req updatePreferencesRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})

		return
	}

	account, ok := currentAccount(gctx)
	if !ok {
		return
	}

	updated, err := h.service.UpdatePreferences(ctx, account.ID, domain.UpdatePreferencesParams{
		CalculationClass: req.CalculationClass,
		Currency:         req.Currency,
	})
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{updated}})
}

// EraseData handles http request to erase all ledger data of the caller.
func (h *Handler) EraseData(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := currentAccount(gctx)
	if !ok {
		return
	}

	erased, err := h.service.EraseAllData(ctx, account.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{erased}})
}

type listRequest struct {
	Approved *bool `form:"approved"`
}

// List handles http request of an admin to list the accounts and count pending access requests.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	account, ok := currentAccount(gctx)
	if !ok {
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})

		return
	}

	accounts, err := h.service.List(ctx, account.ID, domain.ListAccountsParams{Approved: req.Approved})
	if err != nil {
		respondError(gctx, err)
		return
	}

	pending, err := h.accessService.CountPending(ctx, account.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataAccounts{Accounts: accounts, PendingRequests: pending}})
}

type setApprovalURI struct {
	Identity string `uri:"identity" binding:"required"`
}

type setApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// SetApproval handles http request of an admin to approve or revoke an account.
//
// Updated is false when the target is unknown or is an admin whose approval cannot be revoked.
func (h *Handler) SetApproval(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri setApprovalURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})

		return
	}

	var req setApprovalRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})

		return
	}

	account, ok := currentAccount(gctx)
	if !ok {
		return
	}

	updated, err := h.service.SetApproval(ctx, account.ID, uri.Identity, *req.Approved)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataApproval{
		Identity: uri.Identity,
		Approved: *req.Approved,
		Updated:  updated,
	}})
}
