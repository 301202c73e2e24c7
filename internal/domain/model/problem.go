package model

import (
	"time"
)

type Problem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedByID *string   `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Parts       []Part    `json:"parts,omitempty"`
}

// Part is a gradable sub-task of a Problem. Input is the text blob handed to
// contestants; Solution is the hidden expected answer and is never serialized.
//
// Correctness of a submission against a Part is exact string match after
// normalization: CRLF becomes LF, trailing whitespace is stripped from each
// line, and trailing blank lines are dropped. This is part of the Part's
// contract, not an implementation detail.
type Part struct {
	ID        string    `json:"id"`
	ProblemID string    `json:"problem_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Points    int       `json:"points"`
	Input     string    `json:"-"` // served via the download endpoint only
	Solution  string    `json:"-"` // never exposed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
