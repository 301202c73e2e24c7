package model

import "time"

// Submission is an append-only ledger entry: once created it is never
// updated or deleted. IsCorrect is computed once, at creation time, against
// the Part's solution as it existed at that moment.
//
// PartID is nullable: deleting a Part detaches its submissions rather than
// destroying contest history. Detached submissions contribute zero points.
type Submission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PartID      *string   `json:"part_id,omitempty"`
	Content     string    `json:"content"`
	IsCorrect   bool      `json:"is_correct"`
	SubmittedAt time.Time `json:"submitted_at"`

	PartTitle   *string `json:"part_title,omitempty"`   // For display
	ProblemSlug *string `json:"problem_slug,omitempty"` // For display
}

// GradedAttempt is the aggregator's view of one submission: which part it
// was for, what that part is worth now, and whether it was correct. Part
// fields are nil when the part has since been deleted.
type GradedAttempt struct {
	PartID     *string
	PartPoints *int
	IsCorrect  bool
}
