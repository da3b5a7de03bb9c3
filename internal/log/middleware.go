package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// IntoContext stores logger in ctx.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the request logger, or the default one.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return Default()
}

// Middleware puts a request-scoped logger into the context and logs one
// line per completed request. requestID may be nil.
func Middleware(logger *Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger
			if requestID != nil {
				if id := requestID(r); id != "" {
					reqLogger = logger.With(FieldRequestID, id)
				}
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(IntoContext(r.Context(), reqLogger)))

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			reqLogger.Log(r.Context(), level, "HTTP request completed",
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldStatusCode, rec.status,
				FieldDuration, time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
