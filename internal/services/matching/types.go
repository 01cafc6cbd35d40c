package matching

import "time"

// Status is the review-workflow state of a candidate.
type Status string

const (
	StatusAuto      Status = "auto"
	StatusReview    Status = "review"
	StatusUnmatched Status = "unmatched"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusManual    Status = "manual"
)

// Transaction is one side of a reconciliation, bank or book.
type Transaction struct {
	ID          string
	Date        time.Time
	Amount      float64
	Description string
}

// BookEntry is the engine's working copy of a book transaction. Matched is
// flipped once the entry has been consumed by a pairing, so later bank
// transactions cannot claim it again within the same run.
type BookEntry struct {
	Transaction
	Matched bool
}

// Score breaks down how a pairing was rated.
type Score struct {
	Overall      float64 `json:"overall"`
	DateDiffDays float64 `json:"date_diff_days"`
	AmountDiff   float64 `json:"amount_diff"`
	Similarity   float64 `json:"similarity"`
}

// Candidate is one bank transaction's proposed pairing. Book and Score are
// nil when nothing qualified.
type Candidate struct {
	Bank       Transaction  `json:"bank"`
	Book       *Transaction `json:"book,omitempty"`
	Score      *Score       `json:"score,omitempty"`
	Status     Status       `json:"status"`
	Confidence int          `json:"confidence"`
}

// Stats aggregates the current state of a session's candidates.
type Stats struct {
	AutoMatched   int `json:"auto_matched"`
	NeedsReview   int `json:"needs_review"`
	UnmatchedBank int `json:"unmatched_bank"`
	UnmatchedBook int `json:"unmatched_book"`
}

// Result is the immutable summary produced by Finalize.
type Result struct {
	TotalBank     int           `json:"total_bank"`
	TotalBook     int           `json:"total_book"`
	Matched       []Candidate   `json:"matched"`
	UnmatchedBank []Transaction `json:"unmatched_bank"`
	UnmatchedBook []Transaction `json:"unmatched_book"`
}
