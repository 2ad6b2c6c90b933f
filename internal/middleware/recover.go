package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// Recover turns a handler panic into a 500 envelope.
func Recover(logger interfaces.Logger) Middleware {
	logger = logging.OrNoOp(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithContext(r.Context()).Error("http.panic",
					"error", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"stack_trace", string(debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
