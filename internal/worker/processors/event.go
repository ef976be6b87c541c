package processors

import "time"

// Event is a backend mutation notice published on the catalog topic.
type Event struct {
	Type      string    `json:"type" validate:"required,contains=."`
	Resource  string    `json:"resource,omitempty"`
	ID        string    `json:"id,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
