package response

import "github.com/manqala/community-events-api/internal/domain"

type RegisterInterestResponse struct {
	Participant domain.Participant  `json:"participant"`
	Token       domain.VirtualToken `json:"token"`
}

type VerifyParticipantResponse struct {
	Registered  bool                `json:"registered"`
	Participant *domain.Participant `json:"participant,omitempty"`
}

type ScoreInteractionResponse struct {
	Scored bool               `json:"scored"`
	Entry  *domain.ScoreEntry `json:"entry,omitempty"`
}
