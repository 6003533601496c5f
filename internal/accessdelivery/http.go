// Package accessdelivery manages delivery layer of access requests.
package accessdelivery

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

// ErrRequestNotPending is returned when an approve or reject finds no pending request.
var ErrRequestNotPending = errors.New("access request not found or already decided")

// Service provides service layer interface needed by access delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accessdelivery
type Service interface {
	Create(ctx context.Context, identity string, p domain.Profile) (domain.AccessRequest, error)
	ListPending(ctx context.Context, actorID int64) ([]domain.AccessRequest, error)
	Approve(ctx context.Context, actorID, requestID int64) (bool, error)
	Reject(ctx context.Context, actorID, requestID int64) (bool, error)
}

// Handler facilitates access request delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns access request handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	AccessRequest domain.AccessRequest `json:"access_request"`
}

type dataRequests struct {
	AccessRequests []domain.AccessRequest `json:"access_requests"`
	Count          int                    `json:"count"`
}

type dataDecision struct {
	ID     int64                      `json:"id"`
	Status domain.AccessRequestStatus `json:"status"`
}

// Create handles http request of an unapproved caller to ask for access.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := middleware.CurrentAccount(gctx)
	if !ok {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	if account.IsApproved {
		gctx.JSON(http.StatusConflict, web.Error(domain.ErrAlreadyApproved))
		return
	}

	ar, err := h.service.Create(ctx, account.Identity, account.Profile)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{ar}})
}

// ListPending handles http request of an admin to list pending access requests.
func (h *Handler) ListPending(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, ok := middleware.CurrentAccount(gctx)
	if !ok {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	requests, err := h.service.ListPending(ctx, account.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataRequests{requests, len(requests)}})
}

type decideRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Approve handles http request of an admin to approve a pending access request.
func (h *Handler) Approve(gctx *gin.Context) {
	h.decide(gctx, h.service.Approve, domain.AccessApproved)
}

// Reject handles http request of an admin to reject a pending access request.
func (h *Handler) Reject(gctx *gin.Context) {
	h.decide(gctx, h.service.Reject, domain.AccessRejected)
}

func (h *Handler) decide(
	gctx *gin.Context,
	decision func(ctx context.Context, actorID, requestID int64) (bool, error),
	status domain.AccessRequestStatus,
) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req decideRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})

		return
	}

	account, ok := middleware.CurrentAccount(gctx)
	if !ok {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	done, err := decision(ctx, account.ID, req.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	if !done {
		gctx.JSON(http.StatusNotFound, web.Error(ErrRequestNotPending))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataDecision{ID: req.ID, Status: status}})
}

func respondError(gctx *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotAdmin) {
		gctx.JSON(http.StatusForbidden, web.Error(err))
		return
	}

	gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
}
