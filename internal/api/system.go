package api

import (
	"net/http"
	"time"
)

// StatusResponse describes the running server.
type StatusResponse struct {
	UUID      string `json:"uuid" yaml:"uuid"`
	Name      string `json:"name" yaml:"name"`
	StartTime string `json:"start_time" yaml:"start_time"`
	Uptime    string `json:"uptime" yaml:"uptime"`
	Trades    int    `json:"trades" yaml:"trades"`
	Version   int64  `json:"storage_version" yaml:"storage_version"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{
		UUID:      s.uuid,
		Name:      s.name,
		StartTime: s.startTime.Format(time.RFC3339),
		Uptime:    s.now().Sub(s.startTime).Round(time.Second).String(),
		Trades:    s.store.Len(),
		Version:   s.store.Version(),
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
