package matching

import "math"

// matchMinSimilarity is the similarity cutoff the engine uses when ranking
// candidates for a full run. It is looser than the standalone
// FindCandidates default so borderline pairings land in review instead of
// being dropped.
const matchMinSimilarity = 0.5

// Engine runs the matching pass over a bank statement and the ledger.
type Engine struct {
	settings Settings
}

// NewEngine builds an engine, filling unset numeric settings with defaults.
func NewEngine(settings Settings) (*Engine, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Engine{settings: settings}, nil
}

// Settings returns the configuration the engine runs with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Run matches every bank transaction against a fresh working copy of the
// book transactions and returns a review session. Caller-owned slices are
// never mutated; each run starts from a clean clone, so re-running discards
// every prior decision.
func (e *Engine) Run(bank []Transaction, book []Transaction) *Session {
	books := make([]*BookEntry, len(book))
	for i, tx := range book {
		books[i] = &BookEntry{Transaction: tx}
	}

	opts := Options{
		DateToleranceDays:      e.settings.DateToleranceDays,
		AmountTolerancePercent: e.settings.AmountTolerancePercent / 100,
		MinSimilarityScore:     matchMinSimilarity,
	}

	candidates := make([]*Candidate, 0, len(bank))
	byBankID := make(map[string]*Candidate, len(bank))

	for _, tx := range bank {
		scored := FindCandidates(tx, books, opts)
		if len(scored) == 0 {
			c := &Candidate{Bank: tx, Status: StatusUnmatched, Confidence: 0}
			candidates = append(candidates, c)
			byBankID[tx.ID] = c
			continue
		}

		best := scored[0]
		status := StatusReview
		if best.Score.Overall*100 >= e.settings.AutoMatchThreshold {
			status = StatusAuto
		}

		// Consume the winner for the rest of this run. A later human
		// rejection does not release it; only a re-run does.
		best.Book.Matched = true

		bookTx := best.Book.Transaction
		score := best.Score
		c := &Candidate{
			Bank:       tx,
			Book:       &bookTx,
			Score:      &score,
			Status:     status,
			Confidence: int(math.Round(score.Overall * 100)),
		}
		candidates = append(candidates, c)
		byBankID[tx.ID] = c
	}

	return &Session{
		candidates: candidates,
		byBankID:   byBankID,
		books:      books,
	}
}
