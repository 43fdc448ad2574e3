package domain

import "time"

// ItemGrant is one committed hand-out of an item to a participant.
// Grants are append-only; the quota checks aggregate over them.
type ItemGrant struct {
	ID             uint      `json:"id"`
	EventID        uint      `json:"event_id"`
	Item           string    `json:"item"`
	ParticipantID  uint      `json:"participant_id"`
	ReferenceToken string    `json:"reference_token"`
	CreatedAt      time.Time `json:"created_at"`
}
