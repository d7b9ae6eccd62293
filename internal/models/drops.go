package models

import "encoding/json"

// DropSearchResult is the drop-search service's response, keyed by area
// name and relic name with nested reward lists. It is cached and served
// verbatim, never interpreted.
type DropSearchResult = json.RawMessage

// DropSearchRequest wraps the de-duplicated external part ids sent to
// the drop-search service.
type DropSearchRequest struct {
	Data []int64 `json:"data"`
}
