package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Rules())
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.RecurringRule
	if err := decodeJSON(w, r, &rule); err != nil {
		writeError(w, r, err)
		return
	}
	rule.Description = sanitizeInput(rule.Description)
	added, err := s.svc.AddRule(r.Context(), rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var rule core.RecurringRule
	if err := decodeJSON(w, r, &rule); err != nil {
		writeError(w, r, err)
		return
	}
	rule.ID = id
	rule.Description = sanitizeInput(rule.Description)
	updated, err := s.svc.UpdateRule(r.Context(), rule)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.DeleteRule(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tickResponse struct {
	Generated    int                `json:"generated"`
	Transactions []core.Transaction `json:"transactions"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Tick(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs := res.Generated
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, tickResponse{Generated: res.Count(), Transactions: txs})
}
