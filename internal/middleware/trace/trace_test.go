package trace

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/log"

	"github.com/stretchr/testify/assert"
)

func quiet() *log.Logger { return log.New(log.Config{Output: io.Discard}) }

func TestHandler_AssignsRequestID(t *testing.T) {
	m := NewMiddleware(quiet())
	var seen string
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	assert.True(t, strings.HasPrefix(seen, "req_"), seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
}

func TestHandler_ReusesInboundID(t *testing.T) {
	m := NewMiddleware(quiet())
	var seen string
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "upstream-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "upstream-42", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "has space")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "has space", seen)
	assert.True(t, strings.HasPrefix(seen, "req_"))
}

func TestGetMetrics(t *testing.T) {
	m := NewMiddleware(quiet())
	h := m.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	got := m.GetMetrics()
	assert.Equal(t, int64(3), got.TotalRequests)
	assert.Equal(t, int64(0), got.InFlight)
}

func TestGenerateRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
