package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/validation"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 32 << 20

// listTrades handles GET /api/trades?search=&outcome=&type=&sort=&order=
func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.store.Query(filter))
}

func parseFilter(r *http.Request) (journal.Filter, error) {
	q := r.URL.Query()
	errs := make(map[string]string)

	f := journal.Filter{
		Search:  q.Get("search"),
		Outcome: models.Outcome(q.Get("outcome")),
		Type:    models.TradeType(q.Get("type")),
		SortBy:  journal.SortField(q.Get("sort")),
		Order:   journal.Order(q.Get("order")),
	}

	if f.Outcome != "" && !f.Outcome.Valid() {
		errs["outcome"] = fmt.Sprintf("invalid outcome: %s", f.Outcome)
	}
	if f.Type != "" && !f.Type.Valid() {
		errs["type"] = fmt.Sprintf("invalid type: %s", f.Type)
	}
	if f.SortBy != "" && !f.SortBy.Valid() {
		errs["sort"] = fmt.Sprintf("invalid sort field: %s", f.SortBy)
	}
	if f.Order != "" && f.Order != journal.Asc && f.Order != journal.Desc {
		errs["order"] = fmt.Sprintf("invalid order: %s", f.Order)
	}

	if len(errs) > 0 {
		return journal.Filter{}, &validation.Error{Fields: errs}
	}
	return f, nil
}

// createTrade handles POST /api/trades
func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	var in models.TradeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trade, err := s.store.Create(r.Context(), in, s.now())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, trade)
}

// clearTrades handles DELETE /api/trades
func (s *Server) clearTrades(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recentTrades handles GET /api/trades/recent?limit=
func (s *Server) recentTrades(w http.ResponseWriter, r *http.Request) {
	limit := s.recentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit", v)
			return
		}
		limit = n
	}
	s.respondJSON(w, http.StatusOK, s.store.Recent(limit))
}

// exportTrades handles GET /api/trades/export
func (s *Server) exportTrades(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.Export(s.now())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Data)
}

// ImportResponse reports how many trades an import loaded.
type ImportResponse struct {
	Imported int `json:"imported" yaml:"imported"`
}

// importTrades handles POST /api/trades/import
func (s *Server) importTrades(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read import file", err.Error())
		return
	}

	n, err := s.store.Import(r.Context(), body)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ImportResponse{Imported: n})
}

// ReloadResponse describes the collection after a reload.
type ReloadResponse struct {
	Count   int   `json:"count" yaml:"count"`
	Version int64 `json:"version" yaml:"version"`
}

// reloadTrades handles POST /api/trades/reload
func (s *Server) reloadTrades(w http.ResponseWriter, r *http.Request) {
	s.store.Reload(r.Context())
	s.respondJSON(w, http.StatusOK, ReloadResponse{Count: s.store.Len(), Version: s.store.Version()})
}

// getTrade handles GET /api/trades/{id}
func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	trade, ok := s.store.Get(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "trade not found", id)
		return
	}
	s.respondJSON(w, http.StatusOK, trade)
}

// updateTrade handles PATCH /api/trades/{id}
func (s *Server) updateTrade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.TradeUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	patch, err := validation.ValidateUpdateTrade(in)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	trade, found, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if !found {
		s.respondError(w, http.StatusNotFound, "trade not found", id)
		return
	}
	s.respondJSON(w, http.StatusOK, trade)
}

// deleteTrade handles DELETE /api/trades/{id}. Unknown ids succeed.
func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
