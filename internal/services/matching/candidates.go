package matching

import (
	"math"
	"sort"
)

// ScoredEntry pairs a surviving book entry with its score.
type ScoredEntry struct {
	Book  *BookEntry
	Score Score
}

// FindCandidates returns the book entries that could pair with the given
// bank transaction, best first. Entries already consumed by an earlier
// pairing are skipped. The Matched flag is never set here; consuming the
// winner is the caller's job.
func FindCandidates(bank Transaction, books []*BookEntry, opts Options) []ScoredEntry {
	var out []ScoredEntry

	for _, entry := range books {
		if entry.Matched {
			continue
		}

		// 1. Date window
		daysDiff := math.Abs(bank.Date.Sub(entry.Date).Hours() / 24)
		if daysDiff > opts.DateToleranceDays {
			continue
		}

		// 2. Relative amount window over absolute amounts
		bankAmount := math.Abs(bank.Amount)
		bookAmount := math.Abs(entry.Amount)
		amountDiff := math.Abs(bankAmount - bookAmount)

		var amountPercent float64
		if bankAmount == 0 {
			// Zero-amount bank rows only pair with exact-zero book rows.
			if bookAmount != 0 {
				continue
			}
		} else {
			amountPercent = amountDiff / bankAmount
		}
		if amountPercent > opts.AmountTolerancePercent {
			continue
		}

		// 3. Description similarity
		similarity := Similarity(bank.Description, entry.Description)
		if similarity < opts.MinSimilarityScore {
			continue
		}

		// 4. Weighted blend: date 30%, amount 40%, description 30%
		overall := (1-daysDiff/opts.DateToleranceDays)*0.3 +
			(1-amountPercent)*0.4 +
			similarity*0.3

		out = append(out, ScoredEntry{
			Book: entry,
			Score: Score{
				Overall:      overall,
				DateDiffDays: daysDiff,
				AmountDiff:   amountDiff,
				Similarity:   similarity,
			},
		})
	}

	// Stable sort so equal scores keep book input order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Overall > out[j].Score.Overall
	})

	return out
}
