package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frahmantamala/business-management/pkg/logger"
)

func TestFilterBodyMasksSecrets(t *testing.T) {
	out := filterBody([]byte(`{"email":"a@example.com","password":"hunter22","nested":{"refresh":"tok","name":"x"}}`))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a@example.com", got["email"])
	assert.Equal(t, filtered, got["password"])

	nested := got["nested"].(map[string]interface{})
	assert.Equal(t, filtered, nested["refresh"])
	assert.Equal(t, "x", nested["name"])
}

func TestFilterBodyPlainText(t *testing.T) {
	assert.Equal(t, "", filterBody(nil))
	assert.Equal(t, "hello", filterBody([]byte("hello")))
	assert.Equal(t, filtered, filterBody([]byte("token=abc")))
}

func TestFilterHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Content-Type", "application/json")

	out := filterHeaders(h)
	assert.Equal(t, filtered, out["Authorization"])
	assert.Equal(t, "application/json", out["Content-Type"])
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimiddleware.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(TraceHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", seen)
}

func TestRecoveryWritesInternalError(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RecoveryMiddleware(quiet)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companies", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusTeapot, rec.Code)
}

func TestLoggingResponseCarriesInnerAnnotations(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Options{Format: "text", Level: "debug", Output: &buf})

	h := RequestID(LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Annotate(r.Context(), "userID", int64(42))
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set(TraceHeader, "trace-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "traceID=trace-1")
	assert.NotContains(t, lines[0], "userID")
	assert.Contains(t, lines[1], "msg=response")
	assert.Contains(t, lines[1], "traceID=trace-1")
	assert.Contains(t, lines[1], "userID=42")
}
