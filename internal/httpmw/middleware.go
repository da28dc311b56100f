// Package httpmw wraps the todokeep mux with request ids, a JSON access log
// and panic recovery.
package httpmw

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"todokeep/internal/logging"
)

type contextKey struct{}

const headerRequestID = "X-Request-Id"

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithRequestID keeps a caller-supplied X-Request-Id or mints a uuid, and
// echoes it on the response.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// Surface names which part of the app a path belongs to.
func Surface(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"):
		return "api"
	case strings.HasPrefix(path, "/ui/"):
		return "ui"
	case strings.HasPrefix(path, "/static/"):
		return "static"
	case path == "/healthz" || path == "/readyz":
		return "probe"
	default:
		return "page"
	}
}

func mutates(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AccessLog configures WithAccessLog.
type AccessLog struct {
	Logger *log.Logger
	// Tasks is read after each mutating request and logged as "tasks".
	Tasks func() int
}

func WithAccessLog(cfg AccessLog) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			fields := logging.Fields{
				"request_id":  RequestIDFromContext(r.Context()),
				"surface":     Surface(r.URL.Path),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.status,
				"bytes":       rw.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"client":      clientAddr(r),
			}
			if cfg.Tasks != nil && mutates(r.Method) {
				fields["tasks"] = cfg.Tasks()
			}
			logging.Info(cfg.Logger, "http_request", fields)
		})
	}
}

// WithRecover turns a handler panic into a 500. API callers get the same
// {"error": ...} body as every other API failure.
func WithRecover(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logging.Error(logger, "panic_recovered", logging.Fields{
					"request_id": RequestIDFromContext(r.Context()),
					"path":       r.URL.Path,
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				writeInternalError(w, Surface(r.URL.Path) == "api")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeInternalError(w http.ResponseWriter, asJSON bool) {
	const msg = "internal server error"
	if !asJSON {
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", msg)
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// clientAddr is the first X-Forwarded-For hop, else the peer host.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
