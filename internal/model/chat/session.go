package chat

import "time"

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// State is the request gate of a session.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting-response"
)

// Snapshot is a point-in-time copy of a session's transcript.
type Snapshot struct {
	Session    Session `json:"session"`
	State      State   `json:"state"`
	Transcript []Turn  `json:"transcript"`
}
