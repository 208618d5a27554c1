package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/nacara/nacara/internal/logging"
)

// BaseURLRedirect lets links written for a site published below base work
// on the development server, which serves the output directory at the
// root: /<base>/page.html is redirected to /page.html.
func BaseURLRedirect(base string) func(http.Handler) http.Handler {
	prefix := "/" + strings.Trim(base, "/")
	return func(next http.Handler) http.Handler {
		if prefix == "/" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rest, ok := strings.CutPrefix(r.URL.Path, prefix+"/"); ok {
				target := "/" + rest
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request at debug level and failed ones as
// warnings. The websocket endpoint is passed through untouched.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == LiveReloadPath {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if rec.status >= http.StatusBadRequest {
				logger.Warn(r.Context(), nil, "Request failed", fields...)
				return
			}
			logger.Debug(r.Context(), "Request served", fields...)
		})
	}
}
