package http

import (
	"context"
	"net/http"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Goals())
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := decodeJSON(w, r, &g); err != nil {
		writeError(w, r, err)
		return
	}
	g.Name = sanitizeInput(g.Name)
	g.Description = sanitizeInput(g.Description)
	added, err := s.svc.AddGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var g core.SavingsGoal
	if err := decodeJSON(w, r, &g); err != nil {
		writeError(w, r, err)
		return
	}
	g.ID = id
	g.Name = sanitizeInput(g.Name)
	g.Description = sanitizeInput(g.Description)
	updated, err := s.svc.UpdateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteGoal(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	s.goalAmount(w, r, s.svc.Contribute)
}

func (s *Server) handleSetGoalProgress(w http.ResponseWriter, r *http.Request) {
	s.goalAmount(w, r, s.svc.SetGoalProgress)
}

func (s *Server) goalAmount(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req amountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := apply(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
