package domain

import "time"

type TokenContext string

const (
	TokenContextShareContact TokenContext = "share_contact"
	TokenContextRegistration TokenContext = "registration"
)

// VirtualToken is the scannable bearer identifier handed to an
// attendee. It is bound to one owner identity at issuance and never
// changes afterwards.
type VirtualToken struct {
	ID           uint         `json:"id"`
	Value        string       `json:"value"`
	Context      TokenContext `json:"context"`
	EventID      uint         `json:"event_id"`
	PropertyUnit string       `json:"property_unit"`
	Owner        string       `json:"owner"`
	CreatedAt    time.Time    `json:"created_at"`
}
