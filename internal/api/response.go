package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/storage"
	"trading-journal-go/internal/validation"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.Error("Failed to encode JSON response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, details interface{}) {
	s.respondJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// respondStoreError maps a store error onto a status code.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	var werr *journal.StorageWriteError

	switch {
	case errors.As(err, &verr):
		s.respondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, journal.ErrImportFormat):
		s.respondError(w, http.StatusBadRequest, journal.ErrImportFormat.Error(), err.Error())
	case errors.Is(err, journal.ErrDuplicateTrade):
		s.respondError(w, http.StatusConflict, "trade already exists", err.Error())
	case errors.Is(err, storage.ErrVersionConflict):
		s.respondError(w, http.StatusConflict, "journal was changed by another writer, reload and retry", err.Error())
	case errors.As(err, &werr):
		s.respondError(w, http.StatusServiceUnavailable, "failed to save trades, try again", err.Error())
	default:
		s.logger.Error("Unexpected store error", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
