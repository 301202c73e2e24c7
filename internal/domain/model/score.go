package model

import "time"

// Score caches a user's total points. It is never authoritative: the value
// is always derivable by re-scanning the submission ledger, and Recompute
// fully replaces it. A row is created (at zero) the first time a user
// submits anything.
type Score struct {
	UserID       string    `json:"user_id"`
	Points       int       `json:"points"`
	RecomputedAt time.Time `json:"recomputed_at"`

	Username *string `json:"username,omitempty"` // For display
}

type ScoreboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}
