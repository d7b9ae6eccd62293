package api

import (
	"net/http"
)

// ToggleRequest is the request body for a single wishlist toggle
type ToggleRequest struct {
	PartID   string `json:"part_id"`
	Included bool   `json:"included"`
}

// ToggleSetRequest is the request body for a batched wishlist toggle
type ToggleSetRequest struct {
	PartIDs  []string `json:"part_ids"`
	Included bool     `json:"included"`
}

// handleGetWishlist returns the session's selected part ids
func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	selected := s.svc.Selected(sessionID(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selected":    selected,
		"total_count": len(selected),
	})
}

// handleToggle adds or removes a single part from the wishlist
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PartID == "" {
		respondError(w, http.StatusBadRequest, "part_id is required")
		return
	}

	s.svc.Toggle(sessionID(r), req.PartID, req.Included)
	s.handleGetWishlist(w, r)
}

// handleToggleSet adds or removes a whole set's parts in one batch
func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	var req ToggleSetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.PartIDs) == 0 {
		respondError(w, http.StatusBadRequest, "part_ids is required")
		return
	}

	s.svc.ToggleMany(sessionID(r), req.PartIDs, req.Included)
	s.handleGetWishlist(w, r)
}
