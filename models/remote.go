package models

// PushRequest carries a batch of local events to the sync endpoint.
type PushRequest struct {
	DeviceID string        `json:"deviceId"`
	Events   []EventLogRow `json:"events"`
}

// RejectedEvent is an event the server refused, with the reason.
type RejectedEvent struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// RejectionCodeConflict marks a rejection caused by a concurrent server
// change of the same stream. Such events stay pending until the pull phase
// delivers the competing server event.
const RejectionCodeConflict = "CONFLICT"

// PushResponse lists per-event acknowledgements. Ids missing from both lists
// are treated as not acknowledged and stay pending.
type PushResponse struct {
	Accepted []string        `json:"accepted"`
	Rejected []RejectedEvent `json:"rejected"`
}

// PullRequest asks for server events after Cursor.
type PullRequest struct {
	DeviceID string `json:"deviceId"`
	Cursor   string `json:"cursor,omitempty"`
	Limit    int    `json:"limit"`
}

// PullResponse is one page of server events.
type PullResponse struct {
	Events  []EventLogRow `json:"events"`
	Cursor  string        `json:"cursor"`
	HasMore bool          `json:"hasMore"`
}
