package api

import (
	"net/http"
)

// handleDropSearch resolves the session's selection into drop locations
// and stores the result as the session's current one
func (s *Server) handleDropSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.ResolveDrops(r.Context(), sessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleGetDropResult returns the session's last stored search result
func (s *Server) handleGetDropResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.svc.LastDropResult(sessionID(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
