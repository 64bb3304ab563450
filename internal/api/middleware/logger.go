package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"elderguard/pkg/logger"
)

// Logger returns a middleware that logs requests. Message bodies are never logged.
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			reqLog := log.WithRequestID(middleware.GetReqID(r.Context()))

			defer func() {
				status := ww.Status()
				ev := reqLog.Info()
				if status >= http.StatusInternalServerError {
					ev = reqLog.Warn()
				}
				ev.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request completed")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
