// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/haim1120/maaserbot/internal/accessdelivery"
	"github.com/haim1120/maaserbot/internal/accessrepo"
	"github.com/haim1120/maaserbot/internal/accessservice"
	"github.com/haim1120/maaserbot/internal/accountdelivery"
	"github.com/haim1120/maaserbot/internal/accountrepo"
	"github.com/haim1120/maaserbot/internal/accountservice"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/internal/incomerepo"
	"github.com/haim1120/maaserbot/internal/ledgerdelivery"
	"github.com/haim1120/maaserbot/internal/ledgerservice"
	"github.com/haim1120/maaserbot/internal/middleware"
	"github.com/haim1120/maaserbot/internal/paymentrepo"
	"github.com/haim1120/maaserbot/pkg/configpkg"
	"github.com/haim1120/maaserbot/pkg/currencypkg"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
	"github.com/haim1120/maaserbot/pkg/tokenpkg"
	"github.com/haim1120/maaserbot/pkg/web"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB         *dbpkg.DB
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

var (
	registerOnce sync.Once
	registerErr  error
)

func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
			registerErr = errors.New("cannot register currency validator")
			return
		}

		if err := v.RegisterValidation("calcclass", domain.ValidCalculationClass); err != nil {
			registerErr = errors.New("cannot register calculation class validator")
		}
	})

	return registerErr
}

// New creates Server type with instantiated domains and routes.
func New(db *dbpkg.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker: " + err.Error())
	}

	if err := registerValidators(); err != nil {
		return nil, err
	}

	accountRepo := accountrepo.NewRepoPGS(db)
	accessRepo := accessrepo.NewRepoPGS(db)
	incomeRepo := incomerepo.NewRepoPGS(db)
	paymentRepo := paymentrepo.NewRepoPGS(db)

	accountService := accountservice.New(accountRepo, config.AdminID)
	accessService := accessservice.New(accessRepo, accountService)
	ledgerService := ledgerservice.New(incomeRepo, paymentRepo, accountService)

	accountHandler := accountdelivery.NewHandler(accountService, accessService)
	accessHandler := accessdelivery.NewHandler(accessService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService, config.HistoryPageSize)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	if origins := config.AllowedOrigins(); len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders: []string{
				"Authorization", "Content-Type", middleware.RequestIDHeader,
				middleware.ProfileUsernameHeader, middleware.ProfileFirstNameHeader, middleware.ProfileLastNameHeader,
			},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	if config.RateLimit != "" {
		lim, err := middleware.NewRateLimiter(config.RateLimit)
		if err != nil {
			return nil, errors.New("cannot create rate limiter: " + err.Error())
		}

		engine.Use(middleware.RateLimit(lim))
	}

	server := &Server{
		DB:         db,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	engine.GET("/healthz", server.health)

	authRoutes := engine.Group("/",
		middleware.AuthMiddleware(tokenMaker),
		middleware.ResolveAccount(accountService),
	)

	authRoutes.GET("/accounts/me", middleware.Audit("get_account"), accountHandler.Me)
	authRoutes.POST("/access-requests", middleware.Audit("request_access"), accessHandler.Create)

	approvedRoutes := authRoutes.Group("/", middleware.RequireApproved())

	approvedRoutes.PATCH("/accounts/me/preferences", middleware.Audit("update_preferences"), accountHandler.UpdatePreferences)
	approvedRoutes.DELETE("/accounts/me/data", middleware.Audit("erase_data"), accountHandler.EraseData)

	approvedRoutes.POST("/incomes", middleware.Audit("add_income"), ledgerHandler.AddIncome)
	approvedRoutes.GET("/incomes/:id", middleware.Audit("get_income"), ledgerHandler.GetIncome)
	approvedRoutes.PATCH("/incomes/:id", middleware.Audit("edit_income"), ledgerHandler.EditIncome)
	approvedRoutes.DELETE("/incomes/:id", middleware.Audit("delete_income"), ledgerHandler.DeleteIncome)

	approvedRoutes.POST("/payments", middleware.Audit("add_payment"), ledgerHandler.AddPayment)
	approvedRoutes.GET("/payments/:id", middleware.Audit("get_payment"), ledgerHandler.GetPayment)
	approvedRoutes.PATCH("/payments/:id", middleware.Audit("edit_payment"), ledgerHandler.EditPayment)
	approvedRoutes.DELETE("/payments/:id", middleware.Audit("delete_payment"), ledgerHandler.DeletePayment)

	approvedRoutes.GET("/balance", middleware.Audit("get_balance"), ledgerHandler.Balance)
	approvedRoutes.GET("/history", middleware.Audit("get_history"), ledgerHandler.History)

	adminRoutes := approvedRoutes.Group("/admin")

	adminRoutes.GET("/access-requests", middleware.Audit("list_access_requests"), accessHandler.ListPending)
	adminRoutes.POST("/access-requests/:id/approve", middleware.Audit("approve_access_request"), accessHandler.Approve)
	adminRoutes.POST("/access-requests/:id/reject", middleware.Audit("reject_access_request"), accessHandler.Reject)
	adminRoutes.GET("/accounts", middleware.Audit("list_accounts"), accountHandler.List)
	adminRoutes.PUT("/accounts/:identity/approval", middleware.Audit("set_approval"), accountHandler.SetApproval)

	return server, nil
}

type healthData struct {
	Status string `json:"status"`
}

func (s *Server) health(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	if err := s.DB.PingContext(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("database ping")
		gctx.JSON(http.StatusServiceUnavailable, web.Response{Data: healthData{"unavailable"}})

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: healthData{"ok"}})
}
