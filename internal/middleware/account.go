package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haim1120/maaserbot/internal/domain"
	"github.com/haim1120/maaserbot/pkg/errorspkg"
	"github.com/haim1120/maaserbot/pkg/web"
	"github.com/rs/zerolog"
)

// AccountKey is the context key of the caller's account.
const AccountKey = "account"

// Profile headers set by the gateway in front of the service.
const (
	ProfileUsernameHeader  = "X-Profile-Username"
	ProfileFirstNameHeader = "X-Profile-First-Name"
	ProfileLastNameHeader  = "X-Profile-Last-Name"
)

// AccountResolver provides the account lookup needed by ResolveAccount.
type AccountResolver interface {
	GetOrCreate(ctx context.Context, identity string, p domain.Profile) (domain.Account, error)
}

// ResolveAccount gets or creates the account of the authenticated identity and stores it under AccountKey.
//
// It must run after AuthMiddleware.
func ResolveAccount(ar AccountResolver) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()

		payload, ok := AuthPayload(gctx)
		if !ok {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))
			return
		}

		profile := domain.Profile{
			Username:  strings.TrimSpace(gctx.GetHeader(ProfileUsernameHeader)),
			FirstName: strings.TrimSpace(gctx.GetHeader(ProfileFirstNameHeader)),
			LastName:  strings.TrimSpace(gctx.GetHeader(ProfileLastNameHeader)),
		}

		account, err := ar.GetOrCreate(ctx, payload.Identity, profile)
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		l := zerolog.Ctx(ctx).With().Int64("account_id", account.ID).Logger()
		gctx.Request = gctx.Request.WithContext(l.WithContext(ctx))

		gctx.Set(AccountKey, account)
		gctx.Next()
	}
}

// RequireApproved aborts requests of accounts that are not approved.
//
// It must run after ResolveAccount.
func RequireApproved() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		account, ok := CurrentAccount(gctx)
		if !ok {
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		if !account.IsApproved {
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(domain.ErrNotApproved))
			return
		}

		gctx.Next()
	}
}

// CurrentAccount returns the account resolved for the request.
func CurrentAccount(gctx *gin.Context) (domain.Account, bool) {
	v, ok := gctx.Get(AccountKey)
	if !ok {
		return domain.Account{}, false
	}

	account, ok := v.(domain.Account)

	return account, ok
}
