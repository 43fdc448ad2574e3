package domain

import "time"

// Participant binds an identity to an event with its type
// classification. Unique per (event, identity), immutable once created.
type Participant struct {
	ID              uint      `json:"id"`
	EventID         uint      `json:"event_id"`
	Identity        string    `json:"identity"`
	ParticipantType string    `json:"participant_type"`
	CreatedAt       time.Time `json:"created_at"`
}
