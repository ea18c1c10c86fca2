package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger writes one structured access log line per request.
func Logger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				fields := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"remote", r.RemoteAddr,
					"request_id", GetRequestID(r.Context()),
				}
				if ww.Status() >= http.StatusInternalServerError {
					logger.Errorw("HTTP request", fields...)
					return
				}
				logger.Infow("HTTP request", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
