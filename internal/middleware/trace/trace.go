// Package trace assigns a request id to every HTTP request and keeps
// simple request counters.
package trace

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"fintrack/internal/log"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const maxInboundIDLength = 128

type contextKey string

const requestIDKey contextKey = "request_id"

// Metrics is a snapshot of the request counters.
type Metrics struct {
	TotalRequests       int64
	InFlight            int64
	AverageResponseTime time.Duration
}

// Middleware tags requests with an id and counts them.
type Middleware struct {
	logger *log.Logger

	total    atomic.Int64
	inFlight atomic.Int64
	// running sum of response times in microseconds
	elapsed atomic.Int64
}

func NewMiddleware(logger *log.Logger) *Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return &Middleware{logger: logger.WithComponent(log.ComponentTrace)}
}

// Handler wraps next. An inbound X-Request-ID is reused when it is short
// and printable, otherwise a fresh one is generated.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := inboundID(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := WithRequestID(r.Context(), id)

		m.total.Add(1)
		m.inFlight.Add(1)
		defer func() {
			m.inFlight.Add(-1)
			m.elapsed.Add(time.Since(start).Microseconds())
		}()

		m.logger.DebugContext(ctx, "HTTP request started",
			log.FieldRequestID, id,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			"user_agent", r.UserAgent())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func inboundID(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > maxInboundIDLength {
		return ""
	}
	for _, c := range v {
		if c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return v
}

// GenerateRequestID returns a time-ordered id prefixed with "req_".
func GenerateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "req_" + uuid.NewString()
	}
	return "req_" + id.String()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID reads the id assigned by Handler; it matches the signature
// log.Middleware expects.
func RequestID(r *http.Request) string {
	return GetRequestID(r.Context())
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	total := m.total.Load()
	out := Metrics{TotalRequests: total, InFlight: m.inFlight.Load()}
	if done := total - out.InFlight; done > 0 {
		out.AverageResponseTime = time.Duration(m.elapsed.Load()/done) * time.Microsecond
	}
	return out
}
