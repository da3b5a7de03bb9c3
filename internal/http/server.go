// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Options tunes the server; the zero value is usable.
type Options struct {
	Logger            *log.Logger
	RequestsPerMinute int
}

type Server struct {
	http.Server
	svc     *services.LedgerService
	logger  *log.Logger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.LedgerService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:     svc,
		logger:  logger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		tracer:  trace.NewMiddleware(logger),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	clientIP := security.NewClientIP()
	var h http.Handler = mux
	h = s.limiter.Middleware(clientIP.Extract, s.handleRateLimited)(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = log.Middleware(logger, trace.RequestID)(h)
	h = s.tracer.Handler(h)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        h,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /categories", handleCategories)

	mux.HandleFunc("GET /accounts", s.handleListAccounts)
	mux.HandleFunc("POST /accounts", s.handleCreateAccount)
	mux.HandleFunc("PATCH /accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /recurring", s.handleListRules)
	mux.HandleFunc("POST /recurring", s.handleCreateRule)
	mux.HandleFunc("POST /recurring/tick", s.handleTick)
	mux.HandleFunc("PUT /recurring/{id}", s.handleUpdateRule)
	mux.HandleFunc("DELETE /recurring/{id}", s.handleDeleteRule)

	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("PUT /goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /goals/{id}/contribute", s.handleContribute)
	mux.HandleFunc("PUT /goals/{id}/progress", s.handleSetGoalProgress)

	mux.HandleFunc("GET /analytics", s.handleAnalytics)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /budget", s.handleGetBudget)
	mux.HandleFunc("PUT /budget", s.handleSetBudget)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("DELETE /notifications", s.handleClearNotifications)

	mux.HandleFunc("GET /export.json", s.handleExportJSON)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("POST /export/sheets", s.handleExportSheets)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /clear", s.handleClear)
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Ready(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
}
