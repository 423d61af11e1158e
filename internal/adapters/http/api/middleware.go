package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/shoresquad/pkg/logger"
	"github.com/okian/shoresquad/pkg/metrics"
)

// instrument wraps page handlers with request metrics and a request log.
type instrument struct {
	log logger.Logger
}

// wrap records the endpoint's request count, latency and error class. Server
// errors are logged at warn level, everything else at debug.
func (in instrument) wrap(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(elapsed.Milliseconds()))

		class := errorClass(rec.status)
		if class != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		}

		fields := []logger.Field{
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method),
			logger.Int("status", rec.status),
			logger.Int("bytes", rec.bytes),
			logger.Duration("elapsed", elapsed),
		}
		if class == "server_error" {
			in.log.Warn(r.Context(), "request failed", fields...)
			return
		}
		in.log.Debug(r.Context(), "request served", fields...)
	}
}

// errorClass buckets failing statuses; it is empty for successes and redirects.
func errorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return ""
	}
}

// statusRecorder remembers the status and body size a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }
