package http

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/budget"
	"fintrack/internal/services"

	"github.com/shopspring/decimal"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Analytics())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

type budgetView struct {
	budget.Progress
	Display struct {
		Limit     string `json:"limit"`
		Spent     string `json:"spent"`
		Remaining string `json:"remaining"`
	} `json:"display"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	p := s.svc.Budget()
	v := budgetView{Progress: p}
	v.Display.Limit = s.svc.FormatAmount(p.Limit)
	v.Display.Spent = s.svc.FormatAmount(p.Spent)
	v.Display.Remaining = s.svc.FormatAmount(p.Remaining)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit decimal.Decimal `json:"limit"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.SetBudget(r.Context(), req.Limit); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetBudget(w, r)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req services.SettingsUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := s.svc.UpdateSettings(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Notifications())
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

func attachment(w http.ResponseWriter, contentType, prefix, ext string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s-%s.%s"`, prefix, time.Now().UTC().Format(time.DateOnly), ext))
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.ExportJSON()
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, "application/json; charset=utf-8", "fintrack-data", "json")
	_, _ = w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	attachment(w, "text/csv; charset=utf-8", "fintrack", "csv")
	_, _ = w.Write(s.svc.ExportCSV())
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	ref, err := s.svc.ExportToSheet(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"range": ref})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, maxImportBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.svc.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if err := s.svc.ClearAll(r.Context(), req.Confirm); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
