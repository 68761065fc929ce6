package audit

import "time"

// Entry is one row of the audit trail as returned to API clients.
type Entry struct {
	ID         int64          `json:"id"`
	CompanyID  int64          `json:"company_id"`
	ActorID    int64          `json:"actor_id"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Filter narrows audit trail listings.
type Filter struct {
	CompanyID int64
	Entity    string
	Action    string
	From      *time.Time
	To        *time.Time
}
