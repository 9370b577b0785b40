package api

import (
	"net/http"
	"time"

	"trading-journal-go/internal/metrics"
)

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	Summary metrics.Summary     `json:"summary" yaml:"summary"`
	ByType  []metrics.TypeStats `json:"byType" yaml:"byType"`
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	trades := s.store.Trades()
	s.respondJSON(w, http.StatusOK, StatsResponse{
		Summary: metrics.Summarize(trades),
		ByType:  metrics.ByType(trades),
	})
}

func (s *Server) dailyHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, metrics.Daily(s.store.Trades()))
}

func (s *Server) todayHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, metrics.Today(s.store.Trades(), s.now()))
}

// CalendarResponse is one month of daily results.
type CalendarResponse struct {
	Month string                `json:"month" yaml:"month"`
	Days  []metrics.CalendarDay `json:"days" yaml:"days"`
}

// calendarHandler handles GET /api/calendar?month=YYYY-MM, defaulting to the current month.
func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	month := s.now()
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := time.Parse("2006-01", v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "month must be YYYY-MM", v)
			return
		}
		month = m
	}

	s.respondJSON(w, http.StatusOK, CalendarResponse{
		Month: month.Format("2006-01"),
		Days:  metrics.Calendar(s.store.Trades(), month.Year(), month.Month()),
	})
}
