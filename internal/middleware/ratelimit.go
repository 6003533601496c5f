package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haim1120/maaserbot/pkg/errorspkg"
	"github.com/haim1120/maaserbot/pkg/web"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrTooManyRequests is returned once a client exceeds its rate.
var ErrTooManyRequests = errors.New("too many requests")

// NewRateLimiter returns an in-memory limiter for a rate formatted like "120-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit limits requests per client IP.
func RateLimit(lim *limiter.Limiter) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)
		ip := gctx.ClientIP()

		lctx, err := lim.Get(ctx, ip)
		if err != nil {
			l.Error().Err(err).Str("ip", ip).Msg("rate limit check")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		if lctx.Reached {
			l.Warn().Str("ip", ip).Int64("limit", lctx.Limit).Msg("rate limit exceeded")
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, web.Error(ErrTooManyRequests))

			return
		}

		gctx.Next()
	}
}
