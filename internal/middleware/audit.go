package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Audit logs one line per user action with its outcome.
func Audit(action string) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		start := time.Now()

		gctx.Next()

		status := gctx.Writer.Status()
		l := zerolog.Ctx(gctx.Request.Context())

		event := l.Info().
			Str("action", action).
			Bool("success", status < http.StatusBadRequest).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds())

		if account, ok := CurrentAccount(gctx); ok {
			event = event.Str("identity", account.Identity).Bool("admin", account.IsAdmin)
		} else if payload, ok := AuthPayload(gctx); ok {
			event = event.Str("identity", payload.Identity)
		}

		event.Msg("audit")
	}
}
