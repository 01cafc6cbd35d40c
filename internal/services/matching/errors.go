package matching

import "errors"

var (
	// ErrPendingReview blocks finalization while any candidate still
	// awaits a human decision.
	ErrPendingReview = errors.New("candidates still pending review")

	// ErrUnknownCandidate means no candidate exists for the given bank
	// transaction ID.
	ErrUnknownCandidate = errors.New("no candidate for bank transaction")

	// ErrUnknownBookTransaction means a manual match named a book
	// transaction that is not part of this run.
	ErrUnknownBookTransaction = errors.New("unknown book transaction")

	// ErrInvalidTransition means the candidate is not in a state the
	// requested decision applies to.
	ErrInvalidTransition = errors.New("candidate is not awaiting review")
)
