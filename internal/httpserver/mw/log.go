package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/nexus/internal/logger"
)

// quietPaths are hit for every proxied page load (/auth) or by probes;
// they log at debug unless the handler failed.
var quietPaths = map[string]bool{
	"/auth":    true,
	"/healthz": true,
}

// Log writes one structured line per request.
func Log(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			write := log.Info
			switch {
			case status >= http.StatusInternalServerError:
				write = log.Error
			case quietPaths[r.URL.Path]:
				write = log.Debug
			}
			write("http_request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("forwarded_for", r.Header.Get("X-Forwarded-For")),
				logger.String("forwarded_host", r.Header.Get("X-Forwarded-Host")),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
