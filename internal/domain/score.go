package domain

import "time"

// ScoreEntry records one scored social interaction. ReferenceKey is
// unique per entry so the same ordered interaction never scores twice.
type ScoreEntry struct {
	ID           uint      `json:"id"`
	EventID      uint      `json:"event_id"`
	Participant  string    `json:"participant"`
	Score        int       `json:"score"`
	ReferenceKey string    `json:"reference_key"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaderboardRank is the caller-facing rank projection. Rank is dense
// (ties share rank, no gaps) and Percentile is the cumulative
// distribution value on a 0-100 scale.
type LeaderboardRank struct {
	Total            int     `json:"total"`
	Rank             int     `json:"rank"`
	Percentile       float64 `json:"percentile"`
	HighestTotal     int     `json:"highest_total"`
	ParticipantCount int     `json:"participant_count"`
}
