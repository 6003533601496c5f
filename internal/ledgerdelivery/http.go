// Package ledgerdelivery manages delivery layer of incomes, payments and balances.
package ledgerdelivery

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

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	AddIncome(ctx context.Context, accountID int64, arg domain.AddIncomeParams) (domain.IncomeEntry, error)
	GetIncome(ctx context.Context, accountID, incomeID int64) (domain.IncomeEntry, error)
	EditIncome(ctx context.Context, accountID, incomeID int64, arg domain.EditIncomeParams) (domain.IncomeEntry, error)
	DeleteIncome(ctx context.Context, accountID, incomeID int64) (bool, error)
	AddPayment(ctx context.Context, accountID int64, amount string) (domain.PaymentEntry, error)
	GetPayment(ctx context.Context, accountID, paymentID int64) (domain.PaymentEntry, error)
	EditPayment(ctx context.Context, accountID, paymentID int64, amount string) (domain.PaymentEntry, error)
	DeletePayment(ctx context.Context, accountID, paymentID int64) (bool, error)
	ComputeBalance(ctx context.Context, accountID int64) (domain.Balance, error)
	History(ctx context.Context, accountID int64, page, pageSize int32) (domain.History, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service         Service
	defaultPageSize int32
}

// NewHandler returns ledger handler.
//
// defaultPageSize is used for history requests without page_size.
func NewHandler(ls Service, defaultPageSize int32) Handler {
	if defaultPageSize < 1 || defaultPageSize > domain.MaxHistoryPageSize {
		defaultPageSize = 10
	}

	return Handler{service: ls, defaultPageSize: defaultPageSize}
}

type dataIncome struct {
	Income domain.IncomeEntry `json:"income"`
}

type dataPayment struct {
	Payment domain.PaymentEntry `json:"payment"`
}

type dataBalance struct {
	Balance domain.Balance `json:"balance"`
}

type dataHistory struct {
	History domain.History `json:"history"`
}

type dataDeleted struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func respondError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrInvalidCalculationClass),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrPaymentExceedsBalance):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrIncomeNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMsg(err)})
}

func currentAccountID(gctx *gin.Context) (int64, bool) {
	account, ok := middleware.CurrentAccount(gctx)
	if !ok {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return 0, false
	}

	return account.ID, true
}

type entryURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type addIncomeRequest struct {
	Amount           string                   `json:"amount" binding:"required"`
	CalculationClass *domain.CalculationClass `json:"calculation_class" binding:"omitempty,calcclass"`
	Description      string                   `json:"description" binding:"max=255"`
}

// AddIncome handles http request to record an income.
func (h *Handler) AddIncome(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req addIncomeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	income, err := h.service.AddIncome(ctx, accountID, domain.AddIncomeParams{
		Amount:           req.Amount,
		CalculationClass: req.CalculationClass,
		Description:      req.Description,
	})
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataIncome{income}})
}

// GetIncome handles http request to get an income of the caller.
func (h *Handler) GetIncome(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	income, err := h.service.GetIncome(ctx, accountID, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataIncome{income}})
}

type editIncomeRequest struct {
	Amount           *string                  `json:"amount"`
	Description      *string                  `json:"description" binding:"omitempty,max=255"`
	CalculationClass *domain.CalculationClass `json:"calculation_class" binding:"omitempty,calcclass"`
}

// EditIncome handles http request to change an income of the caller.
func (h *Handler) EditIncome(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req editIncomeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	income, err := h.service.EditIncome(ctx, accountID, uri.ID, domain.EditIncomeParams{
		Amount:           req.Amount,
		Description:      req.Description,
		CalculationClass: req.CalculationClass,
	})
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataIncome{income}})
}

// DeleteIncome handles http request to delete an income of the caller.
func (h *Handler) DeleteIncome(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteIncome(ctx, accountID, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	if !deleted {
		respondError(gctx, domain.ErrIncomeNotFound)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataDeleted{ID: uri.ID, Deleted: true}})
}

type paymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// AddPayment handles http request to record a payment.
//
// The payment must not exceed the remaining obligation.
func (h *Handler) AddPayment(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req paymentRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	balance, err := h.service.ComputeBalance(ctx, accountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	if !balance.CanPay(amount) {
		zerolog.Ctx(ctx).Info().
			Stringer("amount", amount).
			Stringer("remaining", balance.Remaining).
			Msg("payment exceeds balance")
		respondError(gctx, domain.ErrPaymentExceedsBalance)

		return
	}

	payment, err := h.service.AddPayment(ctx, accountID, req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataPayment{payment}})
}

// GetPayment handles http request to get a payment of the caller.
func (h *Handler) GetPayment(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(ctx, accountID, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataPayment{payment}})
}

// EditPayment handles http request to change the amount of a payment of the caller.
//
// The new amount must not exceed the remaining obligation plus the old amount.
func (h *Handler) EditPayment(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req paymentRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	old, err := h.service.GetPayment(ctx, accountID, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	balance, err := h.service.ComputeBalance(ctx, accountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	balance.Remaining = balance.Remaining.Add(old.Amount)
	if !balance.CanPay(amount) {
		respondError(gctx, domain.ErrPaymentExceedsBalance)
		return
	}

	payment, err := h.service.EditPayment(ctx, accountID, uri.ID, req.Amount)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataPayment{payment}})
}

// DeletePayment handles http request to delete a payment of the caller.
func (h *Handler) DeletePayment(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri entryURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	deleted, err := h.service.DeletePayment(ctx, accountID, uri.ID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	if !deleted {
		respondError(gctx, domain.ErrPaymentNotFound)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataDeleted{ID: uri.ID, Deleted: true}})
}

// Balance handles http request to get the obligation status of the caller.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	balance, err := h.service.ComputeBalance(ctx, accountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataBalance{balance}})
}

type historyRequest struct {
	PageID   int32 `form:"page_id" binding:"omitempty,min=1"`
	PageSize int32 `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// History handles http request to get a page of the caller's merged history.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if req.PageID == 0 {
		req.PageID = 1
	}

	if req.PageSize == 0 {
		req.PageSize = h.defaultPageSize
	}

	accountID, ok := currentAccountID(gctx)
	if !ok {
		return
	}

	history, err := h.service.History(ctx, accountID, req.PageID, req.PageSize)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataHistory{history}})
}
