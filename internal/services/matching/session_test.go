package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reviewPair builds a bank/book pair that scores in review territory:
// substring similarity and a two-day gap keep the blend well under 95.
func reviewPair(t *testing.T, n string, bankDay, bookDay string, amount float64) (Transaction, Transaction) {
	t.Helper()
	return Transaction{ID: "bank-" + n, Date: day(t, bankDay), Amount: amount, Description: "payment " + n},
		Transaction{ID: "book-" + n, Date: day(t, bookDay), Amount: amount, Description: "payment " + n + " invoice"}
}

// autoPair builds an exact match.
func autoPair(t *testing.T, n string, d string, amount float64) (Transaction, Transaction) {
	t.Helper()
	return Transaction{ID: "bank-" + n, Date: day(t, d), Amount: amount, Description: "vendor " + n},
		Transaction{ID: "book-" + n, Date: day(t, d), Amount: amount, Description: "vendor " + n}
}

func TestApproveAndReject(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := reviewPair(t, "a", "2024-01-05", "2024-01-07", -100)
	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx})

	c := session.Candidates()[0]
	require.Equal(t, StatusReview, c.Status)

	require.NoError(t, session.Approve(bankTx.ID))
	assert.Equal(t, StatusApproved, c.Status)

	// approved is terminal
	assert.ErrorIs(t, session.Approve(bankTx.ID), ErrInvalidTransition)
	assert.ErrorIs(t, session.Reject(bankTx.ID), ErrInvalidTransition)
}

func TestRejectKeepsBookEntryConsumed(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := reviewPair(t, "a", "2024-01-05", "2024-01-07", -100)
	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx})

	require.NoError(t, session.Reject(bankTx.ID))
	assert.Equal(t, StatusRejected, session.Candidates()[0].Status)

	// Rejection does not release the book entry within this run.
	assert.Equal(t, 0, session.Stats().UnmatchedBook)

	result, err := session.Finalize()
	require.NoError(t, err)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedBook)
}

func TestDecisionsRejectNonReviewCandidates(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	autoBank, autoBook := autoPair(t, "a", "2024-01-05", -50)
	unmatchedBank := Transaction{ID: "bank-u", Date: day(t, "2024-01-05"), Amount: -999, Description: "no counterpart"}

	session := engine.Run([]Transaction{autoBank, unmatchedBank}, []Transaction{autoBook})

	assert.ErrorIs(t, session.Approve(autoBank.ID), ErrInvalidTransition)
	assert.ErrorIs(t, session.Reject(unmatchedBank.ID), ErrInvalidTransition)
	assert.ErrorIs(t, session.Approve("no-such-id"), ErrUnknownCandidate)
}

func TestBulkApproveOnlyTouchesReview(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())

	var bank, book []Transaction
	for _, n := range []string{"r1", "r2", "r3"} {
		b, k := reviewPair(t, n, "2024-01-05", "2024-01-07", -100)
		bank = append(bank, b)
		book = append(book, k)
	}
	for _, n := range []string{"a1", "a2"} {
		b, k := autoPair(t, n, "2024-01-05", -500)
		bank = append(bank, b)
		book = append(book, k)
	}

	session := engine.Run(bank, book)
	require.Equal(t, 3, session.Stats().NeedsReview)
	require.Equal(t, 2, session.Stats().AutoMatched)

	assert.Equal(t, 3, session.BulkApprove())

	approved, auto := 0, 0
	for _, c := range session.Candidates() {
		switch c.Status {
		case StatusApproved:
			approved++
		case StatusAuto:
			auto++
		}
	}
	assert.Equal(t, 3, approved)
	assert.Equal(t, 2, auto, "auto candidates must be left untouched")

	// Second pass finds nothing left to approve.
	assert.Equal(t, 0, session.BulkApprove())
}

func TestManualMatchOverridesAnyStatus(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())

	unmatchedBank := Transaction{ID: "bank-u", Date: day(t, "2024-01-05"), Amount: -75, Description: "garbled descriptor"}
	bookTx := Transaction{ID: "book-m", Date: day(t, "2024-02-20"), Amount: -75, Description: "monthly fee"}

	session := engine.Run([]Transaction{unmatchedBank}, []Transaction{bookTx})
	c := session.Candidates()[0]
	require.Equal(t, StatusUnmatched, c.Status)

	require.NoError(t, session.ManualMatch(unmatchedBank.ID, bookTx.ID))
	assert.Equal(t, StatusManual, c.Status)
	assert.Equal(t, 100, c.Confidence)
	require.NotNil(t, c.Book)
	assert.Equal(t, bookTx.ID, c.Book.ID)
	assert.Nil(t, c.Score, "a manual pairing has no computed score")
	assert.Equal(t, 0, session.Stats().UnmatchedBook)
}

func TestManualMatchAfterRejection(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := reviewPair(t, "a", "2024-01-05", "2024-01-07", -100)
	other := Transaction{ID: "book-other", Date: day(t, "2024-03-01"), Amount: -80, Description: "something else"}

	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx, other})
	require.NoError(t, session.Reject(bankTx.ID))

	require.NoError(t, session.ManualMatch(bankTx.ID, other.ID))
	c := session.Candidates()[0]
	assert.Equal(t, StatusManual, c.Status)
	assert.Equal(t, other.ID, c.Book.ID)
}

func TestManualMatchAllowsManyToOne(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	autoBank, autoBook := autoPair(t, "a", "2024-01-05", -50)
	unmatchedBank := Transaction{ID: "bank-u", Date: day(t, "2024-01-05"), Amount: -999, Description: "no counterpart"}

	session := engine.Run([]Transaction{autoBank, unmatchedBank}, []Transaction{autoBook})

	// Pairing onto a book entry the auto match already consumed is allowed;
	// the override is the human's call.
	require.NoError(t, session.ManualMatch(unmatchedBank.ID, autoBook.ID))

	result, err := session.Finalize()
	require.NoError(t, err)
	require.Len(t, result.Matched, 2)
	assert.Equal(t, result.Matched[0].Book.ID, result.Matched[1].Book.ID)
}

func TestManualMatchUnknownBook(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := autoPair(t, "a", "2024-01-05", -50)
	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx})

	assert.ErrorIs(t, session.ManualMatch(bankTx.ID, "not-a-book"), ErrUnknownBookTransaction)
	assert.ErrorIs(t, session.ManualMatch("not-a-bank", bookTx.ID), ErrUnknownCandidate)
}

func TestFinalizeBlockedByPendingReview(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := reviewPair(t, "a", "2024-01-05", "2024-01-07", -100)
	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx})

	_, err := session.Finalize()
	assert.ErrorIs(t, err, ErrPendingReview)

	require.NoError(t, session.Approve(bankTx.ID))
	_, err = session.Finalize()
	assert.NoError(t, err)
}

func TestFinalizePartitions(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())

	autoBank, autoBook := autoPair(t, "a", "2024-01-05", -50)
	reviewBank, reviewBook := reviewPair(t, "r", "2024-01-05", "2024-01-07", -100)
	unmatchedBank := Transaction{ID: "bank-u", Date: day(t, "2024-01-05"), Amount: -999, Description: "no counterpart"}
	spareBook := Transaction{ID: "book-s", Date: day(t, "2024-06-01"), Amount: -12, Description: "spare entry"}

	session := engine.Run(
		[]Transaction{autoBank, reviewBank, unmatchedBank},
		[]Transaction{autoBook, reviewBook, spareBook},
	)
	require.NoError(t, session.Approve(reviewBank.ID))

	result, err := session.Finalize()
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalBank)
	assert.Equal(t, 3, result.TotalBook)

	require.Len(t, result.Matched, 2)
	statuses := map[Status]bool{}
	for _, c := range result.Matched {
		statuses[c.Status] = true
	}
	assert.True(t, statuses[StatusAuto])
	assert.True(t, statuses[StatusApproved])

	require.Len(t, result.UnmatchedBank, 1)
	assert.Equal(t, unmatchedBank.ID, result.UnmatchedBank[0].ID)

	require.Len(t, result.UnmatchedBook, 1)
	assert.Equal(t, spareBook.ID, result.UnmatchedBook[0].ID)
}

func TestStatsTrackDecisions(t *testing.T) {
	engine := newTestEngine(t, DefaultSettings())
	bankTx, bookTx := reviewPair(t, "a", "2024-01-05", "2024-01-07", -100)
	session := engine.Run([]Transaction{bankTx}, []Transaction{bookTx})

	assert.Equal(t, Stats{NeedsReview: 1}, session.Stats())

	require.NoError(t, session.Approve(bankTx.ID))
	assert.Equal(t, Stats{}, session.Stats(), "approved candidates leave the review count")
}
