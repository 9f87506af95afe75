package registry

import "time"

// Item is a stored (id, name) pair. Identifiers are caller-supplied and
// unique among currently stored items; zero and negative values are valid.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventKind classifies a change recorded against an item.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
)

// ItemEvent captures one change in an item's history.
type ItemEvent struct {
	ID        string    `json:"id"`
	ItemID    int64     `json:"itemId"`
	Kind      EventKind `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
