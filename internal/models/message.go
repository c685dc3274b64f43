package models

import "time"

type Role string

const (
	RoleScammer  Role = "scammer"
	RoleHoneypot Role = "honeypot"
)

// ValidRole reports whether r is a known transcript role.
func ValidRole(r Role) bool {
	return r == RoleScammer || r == RoleHoneypot
}

// Message is one turn half stored in the transcript. Messages are
// append-only; created_at is the sole ordering key for replay.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
