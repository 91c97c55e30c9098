// internal/app/system/reqlog/reqlog.go
package reqlog

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

type ctxKey string

const loggerKey ctxKey = "reqlog"

// Middleware tags every request with an id and stores a logger carrying it
// in the request context. An incoming X-Request-ID is kept when it looks
// sane so ids can follow a request through a proxy.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(Header))
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			w.Header().Set(Header, id)

			l := logger.With(zap.String("request_id", id))
			ctx := context.WithValue(r.Context(), loggerKey, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// From returns the request-scoped logger, or fallback when the request did
// not pass through Middleware.
func From(r *http.Request, fallback *zap.Logger) *zap.Logger {
	if l, ok := r.Context().Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}
