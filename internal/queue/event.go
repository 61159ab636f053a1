// Package queue defines account activity events exchanged over the message
// broker and the background consumer that records them.
package queue

// Event types published on the account.activity queue.
const (
	EventUserRegistered = "user.registered"
	EventUserSignedIn   = "user.signed_in"
	EventUserDeleted    = "user.deleted"
	EventCarDeleted     = "car.deleted"
)

// AccountEvent is published after notable account activity.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type AccountEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	Provider   string `json:"provider,omitempty"`
	CarID      uint64 `json:"car_id,omitempty"`
	CarName    string `json:"car_name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
