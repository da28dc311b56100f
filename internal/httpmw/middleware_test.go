package httpmw

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestSurface(t *testing.T) {
	cases := map[string]string{
		"/api/tasks":          "api",
		"/api/tasks/x/toggle": "api",
		"/ui/add":             "ui",
		"/static/js/app.js":   "static",
		"/healthz":            "probe",
		"/readyz":             "probe",
		"/":                   "page",
	}
	for path, want := range cases {
		assert.Equal(t, want, Surface(path), path)
	}
}

func TestAccessLog_TaskCountOnMutations(t *testing.T) {
	var buf bytes.Buffer
	count := 0
	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				count++
				w.WriteHeader(http.StatusCreated)
			}
			_, _ = w.Write([]byte("ok"))
		}),
		WithRequestID,
		WithAccessLog(AccessLog{Logger: log.New(&buf, "", 0), Tasks: func() int { return count }}),
	)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tasks", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "http_request", lines[0]["msg"])
	assert.Equal(t, "api", lines[0]["surface"])
	assert.Equal(t, float64(201), lines[0]["status"])
	assert.Equal(t, float64(2), lines[0]["bytes"])
	assert.Equal(t, float64(1), lines[0]["tasks"])
	assert.NotEmpty(t, lines[0]["request_id"])

	assert.Equal(t, float64(200), lines[1]["status"])
	assert.NotContains(t, lines[1], "tasks")
}

func TestChain_AccessLogAndRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
		WithRequestID,
		WithAccessLog(AccessLog{Logger: logger}),
		WithRecover(logger),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	panicLine, accessLine := lines[0], lines[1]
	assert.Equal(t, "panic_recovered", panicLine["msg"])
	assert.Equal(t, "boom", panicLine["panic"])
	assert.Equal(t, "http_request", accessLine["msg"])
	assert.Equal(t, float64(500), accessLine["status"])
	assert.Equal(t, "10.0.0.1", accessLine["client"])
	assert.Equal(t, panicLine["request_id"], accessLine["request_id"])
}

func TestWithRecover_PlainTextOutsideAPI(t *testing.T) {
	h := WithRecover(log.New(&bytes.Buffer{}, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error\n", rec.Body.String())
}
