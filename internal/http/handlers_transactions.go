package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/filter"

	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Category    core.Category        `json:"category"`
	Type        core.TransactionType `json:"type"`
	Account     int64                `json:"account"`
}

// criteriaFromQuery maps query parameters onto filter criteria; absent
// parameters match everything.
func criteriaFromQuery(r *http.Request) filter.Criteria {
	c := filter.Default()
	q := r.URL.Query()
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Category, "category")
	set(&c.DateRange, "dateRange")
	set(&c.AmountRange, "amountRange")
	set(&c.Account, "account")
	c.Search = q.Get("search")
	return c
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Transactions(criteriaFromQuery(r)))
}

// handleCreateTransaction posts to the first account when none is given.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	account := req.Account
	if account == 0 {
		if accounts := s.svc.Accounts(); len(accounts) > 0 {
			account = accounts[0].ID
		}
	}
	tx, err := s.svc.AddTransaction(r.Context(), core.TransactionDraft{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	}, account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := core.TransactionID(r.PathValue("id"))
	if _, err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryView struct {
	ID   core.Category `json:"id"`
	Name string        `json:"name"`
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]categoryView, len(cats))
	for i, c := range cats {
		out[i] = categoryView{ID: c, Name: c.Name()}
	}
	writeJSON(w, http.StatusOK, out)
}
