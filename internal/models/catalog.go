package models

// RawStatusRecord is one collectible set as reported by the upstream
// prime status feed. Field names follow the feed's JSON contract.
type RawStatusRecord struct {
	SetName string    `json:"warframe_set"`
	Status  string    `json:"status"` // "1" = vaulted, "0" = obtainable
	Type    string    `json:"type"`
	Parts   []RawPart `json:"parts"`
}

// RawPart is one droppable component inside a RawStatusRecord. The feed
// calls the label field "parts".
type RawPart struct {
	Label      string `json:"parts"`
	ExternalID int64  `json:"id"`
}

// SetCategory classifies a prime set.
type SetCategory string

const (
	CategoryWarframe  SetCategory = "Warframe"
	CategoryPrimary   SetCategory = "Primary Weapon"
	CategorySecondary SetCategory = "Secondary Weapon"
	CategoryMelee     SetCategory = "Melee Weapon"
)

// Part is an individually droppable component belonging to exactly one
// set. ExternalID is the upstream numeric id used for drop lookups;
// zero means the feed did not report one.
type Part struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	SetID      string      `json:"set_id"`
	SetName    string      `json:"set_name"`
	Category   SetCategory `json:"category"`
	IsVaulted  bool        `json:"is_vaulted"`
	ExternalID int64       `json:"external_id,omitempty"`
}

// Set is a named collectible group composed of one or more parts, in
// upstream order.
type Set struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Category  SetCategory `json:"category"`
	IsVaulted bool        `json:"is_vaulted"`
	Parts     []Part      `json:"parts"`
}
