package restserver

import (
	"net/http"

	"github.com/chrissnell/astrocalc/internal/log"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// loggingMiddleware assigns a request id and writes one access log line per
// request.
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		m := httpsnoop.CaptureMetrics(next, w, r)

		log.LogHTTPRequest(c.logger, log.HTTPLogEntry{
			RequestID:  requestID,
			Method:     r.Method,
			Path:       r.URL.Path,
			Query:      r.URL.RawQuery,
			Status:     m.Code,
			Duration:   m.Duration,
			Size:       m.Written,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		})
	})
}

// corsHandler wraps h with the configured cross-origin policy. Credentials
// are allowed, so origins are echoed rather than wildcarded.
func (c *Controller) corsHandler(h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(c.serverConfig.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Accept", "Authorization", "Content-Type", "X-Requested-With", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
		handlers.AllowCredentials(),
	)(h)
}
