package matching

// Session holds one run's candidates and working book copies while a human
// works through the review queue. It is not safe for concurrent use;
// callers serialize access per run.
type Session struct {
	candidates []*Candidate
	byBankID   map[string]*Candidate
	books      []*BookEntry
}

// Candidates returns every candidate in bank input order.
func (s *Session) Candidates() []*Candidate {
	return s.candidates
}

// Candidate looks up the candidate for a bank transaction.
func (s *Session) Candidate(bankID string) (*Candidate, error) {
	c, ok := s.byBankID[bankID]
	if !ok {
		return nil, ErrUnknownCandidate
	}
	return c, nil
}

// Stats recounts the session's candidates and remaining book entries.
func (s *Session) Stats() Stats {
	var stats Stats
	for _, c := range s.candidates {
		switch c.Status {
		case StatusAuto:
			stats.AutoMatched++
		case StatusReview:
			stats.NeedsReview++
		case StatusUnmatched:
			stats.UnmatchedBank++
		}
	}
	for _, entry := range s.books {
		if !entry.Matched {
			stats.UnmatchedBook++
		}
	}
	return stats
}

// Approve accepts a candidate that is waiting for review.
func (s *Session) Approve(bankID string) error {
	c, err := s.Candidate(bankID)
	if err != nil {
		return err
	}
	if c.Status != StatusReview {
		return ErrInvalidTransition
	}
	c.Status = StatusApproved
	return nil
}

// Reject declines a candidate that is waiting for review. The consumed book
// entry is not released within this run.
func (s *Session) Reject(bankID string) error {
	c, err := s.Candidate(bankID)
	if err != nil {
		return err
	}
	if c.Status != StatusReview {
		return ErrInvalidTransition
	}
	c.Status = StatusRejected
	return nil
}

// BulkApprove approves every candidate currently in review and returns how
// many it touched. Auto, unmatched and already-decided candidates are left
// alone.
func (s *Session) BulkApprove() int {
	count := 0
	for _, c := range s.candidates {
		if c.Status == StatusReview {
			c.Status = StatusApproved
			count++
		}
	}
	return count
}

// ManualMatch pairs a bank transaction with an explicitly chosen book
// transaction, overriding whatever the algorithm decided. Confidence is
// forced to 100 and the computed score is dropped. Pairing onto a book
// entry another candidate already consumed is allowed; the override is the
// human's call.
func (s *Session) ManualMatch(bankID, bookID string) error {
	c, err := s.Candidate(bankID)
	if err != nil {
		return err
	}

	var entry *BookEntry
	for _, e := range s.books {
		if e.ID == bookID {
			entry = e
			break
		}
	}
	if entry == nil {
		return ErrUnknownBookTransaction
	}

	entry.Matched = true
	bookTx := entry.Transaction
	c.Book = &bookTx
	c.Score = nil
	c.Status = StatusManual
	c.Confidence = 100
	return nil
}

// Finalize partitions the session into matched, unmatched-bank and
// unmatched-book lists. It fails with ErrPendingReview while any candidate
// is still in review; rejected candidates end up in no partition.
func (s *Session) Finalize() (*Result, error) {
	for _, c := range s.candidates {
		if c.Status == StatusReview {
			return nil, ErrPendingReview
		}
	}

	result := &Result{
		TotalBank: len(s.candidates),
		TotalBook: len(s.books),
	}
	for _, c := range s.candidates {
		switch c.Status {
		case StatusAuto, StatusApproved, StatusManual:
			result.Matched = append(result.Matched, *c)
		case StatusUnmatched:
			result.UnmatchedBank = append(result.UnmatchedBank, c.Bank)
		}
	}
	for _, entry := range s.books {
		if !entry.Matched {
			result.UnmatchedBook = append(result.UnmatchedBook, entry.Transaction)
		}
	}
	return result, nil
}
