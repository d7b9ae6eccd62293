package api

import (
	"net/http"
)

// handleGetPrimeStatus returns the session's raw status feed
func (s *Server) handleGetPrimeStatus(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.PrimeStatus(r.Context(), sessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// handleGetPrimeSets returns the session's normalized catalog, building
// it from the cached feed on first use
func (s *Server) handleGetPrimeSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.svc.PrimeSets(r.Context(), sessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sets":        sets,
		"total_count": len(sets),
	})
}
