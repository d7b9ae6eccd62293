package session

import (
	"sort"
	"sync"
)

// Selection tracks the part ids one session has wishlisted. Purely in
// memory, never persisted.
type Selection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds or removes a single part id.
func (s *Selection) Toggle(partID string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(partID, included)
}

// ToggleMany adds or removes a batch of part ids under one lock, so no
// reader ever observes a partially applied batch.
func (s *Selection) ToggleMany(partIDs []string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range partIDs {
		s.apply(id, included)
	}
}

func (s *Selection) apply(partID string, included bool) {
	if partID == "" {
		return
	}
	if included {
		s.ids[partID] = struct{}{}
	} else {
		delete(s.ids, partID)
	}
}

// Selected returns the selected part ids, sorted for stable output.
func (s *Selection) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected parts.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Selections hands out the per-session tracker, creating one on first
// use.
type Selections struct {
	mu   sync.Mutex
	byID map[string]*Selection
}

// NewSelections creates an empty registry.
func NewSelections() *Selections {
	return &Selections{byID: make(map[string]*Selection)}
}

// For returns the tracker for the given session.
func (s *Selections) For(sessionID string) *Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.byID[sessionID]
	if !ok {
		sel = NewSelection()
		s.byID[sessionID] = sel
	}
	return sel
}

// Remove drops the trackers for the given session ids, typically after
// the store sweeps the same sessions.
func (s *Selections) Remove(sessionIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sessionIDs {
		delete(s.byID, id)
	}
}
