package ledgerdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/integrationtest/helpers"
	"github.com/haim1120/maaserbot/internal/middleware"
	"github.com/haim1120/maaserbot/pkg/errorspkg"
	"github.com/haim1120/maaserbot/pkg/randompkg"
	"github.com/haim1120/maaserbot/pkg/tokenpkg"
)

const defaultPageSize = 10

var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateApproxTime(time.Second),
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("calcclass", domain.ValidCalculationClass); err != nil {
			panic(err)
		}
	}

	os.Exit(m.Run())
}

type testCase struct {
	name           string
	method         string
	path           string
	body           any
	buildStubs     func(s *MockService)
	wantStatusCode int
	wantError      string
	checkData      func(t *testing.T, data json.RawMessage)
}

func runTestCases(t *testing.T, account domain.Account, testCases []testCase) {
	t.Helper()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker returned error: %v", err)
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledgerService := NewMockService(ctrl)
			tc.buildStubs(ledgerService)

			handler := NewHandler(ledgerService, defaultPageSize)

			server := gin.New()
			routes := server.Group("/").Use(
				middleware.AuthMiddleware(tokenMaker),
				func(gctx *gin.Context) { gctx.Set(middleware.AccountKey, account) },
			)
			routes.POST("/incomes", handler.AddIncome)
			routes.GET("/incomes/:id", handler.GetIncome)
			routes.PATCH("/incomes/:id", handler.EditIncome)
			routes.DELETE("/incomes/:id", handler.DeleteIncome)
			routes.POST("/payments", handler.AddPayment)
			routes.GET("/payments/:id", handler.GetPayment)
			routes.PATCH("/payments/:id", handler.EditPayment)
			routes.DELETE("/payments/:id", handler.DeletePayment)
			routes.GET("/balance", handler.Balance)
			routes.GET("/history", handler.History)

			body, err := json.Marshal(tc.body)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(tc.method, tc.path, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, account.Identity, time.Minute)
			if err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := struct {
				Data  json.RawMessage `json:"data"`
				Error string          `json:"error"`
			}{}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if res.Error != tc.wantError {
				t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
			}

			if tc.checkData != nil {
				tc.checkData(t, res.Data)
			}
		})
	}
}

func checkData[T any](want T) func(t *testing.T, data json.RawMessage) {
	return func(t *testing.T, data json.RawMessage) {
		t.Helper()

		var got T
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Decoding data error: %v", err)
		}

		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	}
}

func balanceOf(obligation, paid string) domain.Balance {
	o := decimal.RequireFromString(obligation)
	p := decimal.RequireFromString(paid)

	return domain.Balance{
		TotalIncome: o.Mul(decimal.NewFromInt(10)),
		Obligation:  o,
		TotalPaid:   p,
		Remaining:   o.Sub(p),
	}
}

func TestIncomes(t *testing.T) {
	account := helpers.RandomAccount()
	income := helpers.RandomIncome(account.ID)
	id := strconv.FormatInt(income.ID, 10)
	class := domain.TwentyPercent

	edited := income
	edited.CalculationClass = class

	runTestCases(t, account, []testCase{
		{
			name:   "AddOK",
			method: http.MethodPost,
			path:   "/incomes",
			body:   gin.H{"amount": income.Amount.String(), "description": income.Description},
			buildStubs: func(s *MockService) {
				s.EXPECT().
					AddIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(domain.AddIncomeParams{
						Amount:      income.Amount.String(),
						Description: income.Description,
					})).
					Times(1).
					Return(income, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataIncome{income}),
		},
		{
			name:   "AddMissingAmount",
			method: http.MethodPost,
			path:   "/incomes",
			body:   gin.H{"description": "x"},
			buildStubs: func(s *MockService) {
				s.EXPECT().AddIncome(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount is required",
		},
		{
			name:   "AddInvalidClass",
			method: http.MethodPost,
			path:   "/incomes",
			body:   gin.H{"amount": "10", "calculation_class": "HALF"},
			buildStubs: func(s *MockService) {
				s.EXPECT().AddIncome(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "CalculationClass is not supported",
		},
		{
			name:   "AddNonPositive",
			method: http.MethodPost,
			path:   "/incomes",
			body:   gin.H{"amount": "-10"},
			buildStubs: func(s *MockService) {
				s.EXPECT().
					AddIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Any()).
					Times(1).
					Return(domain.IncomeEntry{}, domain.ErrNonPositiveAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrNonPositiveAmount.Error(),
		},
		{
			name:   "GetOK",
			method: http.MethodGet,
			path:   "/incomes/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().GetIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(income.ID)).Times(1).Return(income, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataIncome{income}),
		},
		{
			name:   "GetNotFound",
			method: http.MethodGet,
			path:   "/incomes/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().
					GetIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(income.ID)).
					Times(1).
					Return(domain.IncomeEntry{}, domain.ErrIncomeNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrIncomeNotFound.Error(),
		},
		{
			name:   "EditOK",
			method: http.MethodPatch,
			path:   "/incomes/" + id,
			body:   gin.H{"calculation_class": class},
			buildStubs: func(s *MockService) {
				s.EXPECT().
					EditIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(income.ID), gomock.Eq(domain.EditIncomeParams{
						CalculationClass: &class,
					})).
					Times(1).
					Return(edited, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataIncome{edited}),
		},
		{
			name:   "DeleteOK",
			method: http.MethodDelete,
			path:   "/incomes/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().DeleteIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(income.ID)).Times(1).Return(true, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataDeleted{ID: income.ID, Deleted: true}),
		},
		{
			name:   "DeleteNotFound",
			method: http.MethodDelete,
			path:   "/incomes/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().DeleteIncome(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(income.ID)).Times(1).Return(false, nil)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrIncomeNotFound.Error(),
		},
		{
			name:   "BadID",
			method: http.MethodGet,
			path:   "/incomes/abc",
			buildStubs: func(s *MockService) {
				s.EXPECT().GetIncome(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request",
		},
	})
}

func TestAddPayment(t *testing.T) {
	account := helpers.RandomAccount()
	payment := helpers.RandomPayment(account.ID)
	payment.Amount = decimal.RequireFromString("100")

	runTestCases(t, account, []testCase{
		{
			name:   "OK",
			method: http.MethodPost,
			path:   "/payments",
			body:   gin.H{"amount": "100"},
			buildStubs: func(s *MockService) {
				gomock.InOrder(
					s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balanceOf("300", "150"), nil),
					s.EXPECT().AddPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq("100")).Times(1).Return(payment, nil),
				)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataPayment{payment}),
		},
		{
			name:   "ExactRemaining",
			method: http.MethodPost,
			path:   "/payments",
			body:   gin.H{"amount": "150"},
			buildStubs: func(s *MockService) {
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balanceOf("300", "150"), nil)
				s.EXPECT().AddPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq("150")).Times(1).Return(payment, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "ExceedsBalance",
			method: http.MethodPost,
			path:   "/payments",
			body:   gin.H{"amount": "150.01"},
			buildStubs: func(s *MockService) {
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balanceOf("300", "150"), nil)
				s.EXPECT().AddPayment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrPaymentExceedsBalance.Error(),
		},
		{
			name:   "InvalidAmount",
			method: http.MethodPost,
			path:   "/payments",
			body:   gin.H{"amount": "abc"},
			buildStubs: func(s *MockService) {
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Any()).Times(0)
				s.EXPECT().AddPayment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:   "InternalServerError",
			method: http.MethodPost,
			path:   "/payments",
			body:   gin.H{"amount": "1"},
			buildStubs: func(s *MockService) {
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Any()).Times(1).Return(domain.Balance{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	})
}

func TestEditPayment(t *testing.T) {
	account := helpers.RandomAccount()
	old := helpers.RandomPayment(account.ID)
	old.Amount = decimal.RequireFromString("50")
	id := strconv.FormatInt(old.ID, 10)

	edited := old
	edited.Amount = decimal.RequireFromString("60")

	runTestCases(t, account, []testCase{
		{
			name:   "OK",
			method: http.MethodPatch,
			path:   "/payments/" + id,
			body:   gin.H{"amount": "60"},
			buildStubs: func(s *MockService) {
				s.EXPECT().GetPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).Times(1).Return(old, nil)
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balanceOf("100", "90"), nil)
				s.EXPECT().EditPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID), gomock.Eq("60")).Times(1).Return(edited, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataPayment{edited}),
		},
		{
			name:   "ExceedsBalance",
			method: http.MethodPatch,
			path:   "/payments/" + id,
			body:   gin.H{"amount": "60.5"},
			buildStubs: func(s *MockService) {
				s.EXPECT().GetPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).Times(1).Return(old, nil)
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balanceOf("100", "90"), nil)
				s.EXPECT().EditPayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrPaymentExceedsBalance.Error(),
		},
		{
			name:   "NotFound",
			method: http.MethodPatch,
			path:   "/payments/" + id,
			body:   gin.H{"amount": "1"},
			buildStubs: func(s *MockService) {
				s.EXPECT().
					GetPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).
					Times(1).
					Return(domain.PaymentEntry{}, domain.ErrPaymentNotFound)
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrPaymentNotFound.Error(),
		},
		{
			name:   "GetOK",
			method: http.MethodGet,
			path:   "/payments/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().GetPayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).Times(1).Return(old, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataPayment{old}),
		},
		{
			name:   "DeleteOK",
			method: http.MethodDelete,
			path:   "/payments/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().DeletePayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).Times(1).Return(true, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataDeleted{ID: old.ID, Deleted: true}),
		},
		{
			name:   "DeleteNotFound",
			method: http.MethodDelete,
			path:   "/payments/" + id,
			buildStubs: func(s *MockService) {
				s.EXPECT().DeletePayment(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(old.ID)).Times(1).Return(false, nil)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrPaymentNotFound.Error(),
		},
	})
}

func TestBalanceAndHistory(t *testing.T) {
	account := helpers.RandomAccount()
	balance := balanceOf("300", "150")

	income := helpers.RandomIncome(account.ID)
	payment := helpers.RandomPayment(account.ID)
	history := domain.NewHistory([]domain.IncomeEntry{income}, []domain.PaymentEntry{payment}, 2, 1, defaultPageSize)

	runTestCases(t, account, []testCase{
		{
			name:   "Balance",
			method: http.MethodGet,
			path:   "/balance",
			buildStubs: func(s *MockService) {
				s.EXPECT().ComputeBalance(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(balance, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataBalance{balance}),
		},
		{
			name:   "HistoryDefaults",
			method: http.MethodGet,
			path:   "/history",
			buildStubs: func(s *MockService) {
				s.EXPECT().
					History(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(int32(1)), gomock.Eq(int32(defaultPageSize))).
					Times(1).
					Return(history, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData:      checkData(dataHistory{history}),
		},
		{
			name:   "HistoryPage",
			method: http.MethodGet,
			path:   "/history?page_id=3&page_size=5",
			buildStubs: func(s *MockService) {
				s.EXPECT().
					History(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(int32(3)), gomock.Eq(int32(5))).
					Times(1).
					Return(domain.History{Page: 3, PageSize: 5, Entries: []domain.HistoryEntry{}}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "HistoryPageSizeTooLarge",
			method: http.MethodGet,
			path:   "/history?page_size=101",
			buildStubs: func(s *MockService) {
				s.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageSize must be at most 100",
		},
		{
			name:   "HistoryNotFound",
			method: http.MethodGet,
			path:   "/history",
			buildStubs: func(s *MockService) {
				s.EXPECT().
					History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.History{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	})
}
