package reconciliation

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/repository"
	"bank-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRunNotFound  = errors.New("reconciliation run not found")
	ErrRunFinalized = errors.New("reconciliation run already finalized")
)

// runState is the in-memory side of one reconciliation run: the engine, the
// live review session and the input snapshot the session was computed from.
// A re-run recomputes over the same snapshot, so the run stays comparable
// across recomputes.
type runState struct {
	mu      sync.Mutex
	engine  *matching.Engine
	session *matching.Session
	bank    []matching.Transaction
	book    []matching.Transaction
}

type ReconciliationService struct {
	bankRepo *repository.BankTransactionRepository
	bookRepo *repository.BookTransactionRepository
	db       *gorm.DB
	sessions sync.Map // runID -> *runState
}

func NewReconciliationService(
	bankRepo *repository.BankTransactionRepository,
	bookRepo *repository.BookTransactionRepository,
) *ReconciliationService {
	return &ReconciliationService{
		bankRepo: bankRepo,
		bookRepo: bookRepo,
		db:       bankRepo.DB(),
	}
}

// RunStatus is what the API reports about a run: the persisted row plus
// live stats while the session is still open.
type RunStatus struct {
	Run   models.ReconciliationRun `json:"run"`
	Stats matching.Stats           `json:"stats"`
}

// StartRun loads the pending bank transactions and unreconciled ledger
// entries, runs the matcher over them and opens a review session.
func (s *ReconciliationService) StartRun(settings matching.Settings) (*RunStatus, error) {
	engine, err := matching.NewEngine(settings)
	if err != nil {
		return nil, err
	}

	bankRows, err := s.bankRepo.ListPending()
	if err != nil {
		return nil, err
	}
	bookRows, err := s.bookRepo.ListUnreconciled()
	if err != nil {
		return nil, err
	}

	bank := make([]matching.Transaction, len(bankRows))
	for i, row := range bankRows {
		bank[i] = matching.Transaction{
			ID:          row.ID.String(),
			Date:        row.TransactionDate,
			Amount:      row.Amount,
			Description: row.Description,
		}
	}
	book := make([]matching.Transaction, len(bookRows))
	for i, row := range bookRows {
		book[i] = matching.Transaction{
			ID:          row.ID.String(),
			Date:        row.EntryDate,
			Amount:      row.Amount,
			Description: row.Description,
		}
	}

	session := engine.Run(bank, book)
	stats := session.Stats()

	settingsJSON, _ := json.Marshal(engine.Settings())
	run := models.ReconciliationRun{
		ID:                 uuid.New(),
		Status:             "matching",
		TotalBank:          len(bank),
		TotalBook:          len(book),
		AutoMatchedCount:   stats.AutoMatched,
		NeedsReviewCount:   stats.NeedsReview,
		UnmatchedBankCount: stats.UnmatchedBank,
		UnmatchedBookCount: stats.UnmatchedBook,
		Settings:           settingsJSON,
		StartedAt:          time.Now(),
		CreatedAt:          time.Now(),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, err
	}

	s.sessions.Store(run.ID, &runState{
		engine:  engine,
		session: session,
		bank:    bank,
		book:    book,
	})

	log.Printf("reconciliation run %s: %d bank vs %d book, %d auto, %d review, %d unmatched",
		run.ID, len(bank), len(book), stats.AutoMatched, stats.NeedsReview, stats.UnmatchedBank)

	return &RunStatus{Run: run, Stats: stats}, nil
}

// Rerun recomputes the run's candidates from its original input snapshot.
// Every approval, rejection and manual pairing made so far is discarded.
func (s *ReconciliationService) Rerun(runID uuid.UUID) (*RunStatus, error) {
	state, err := s.state(runID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	state.session = state.engine.Run(state.bank, state.book)
	stats := state.session.Stats()

	if err := s.updateRunStats(runID, stats); err != nil {
		return nil, err
	}
	s.logAction(runID, nil, nil, "rerun")

	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}
	return &RunStatus{Run: *run, Stats: stats}, nil
}

// GetRun returns the persisted run row plus live stats when the review
// session is still open.
func (s *ReconciliationService) GetRun(runID uuid.UUID) (*RunStatus, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}

	status := &RunStatus{Run: *run}
	if val, ok := s.sessions.Load(runID); ok {
		state := val.(*runState)
		state.mu.Lock()
		status.Stats = state.session.Stats()
		state.mu.Unlock()
	} else {
		status.Stats = matching.Stats{
			AutoMatched:   run.AutoMatchedCount,
			NeedsReview:   run.NeedsReviewCount,
			UnmatchedBank: run.UnmatchedBankCount,
			UnmatchedBook: run.UnmatchedBookCount,
		}
	}
	return status, nil
}

// Candidates lists the run's candidates, optionally filtered by status.
func (s *ReconciliationService) Candidates(runID uuid.UUID, status string) ([]matching.Candidate, error) {
	state, err := s.state(runID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	var out []matching.Candidate
	for _, c := range state.session.Candidates() {
		if status != "" && status != "all" && string(c.Status) != status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

// Approve accepts a candidate waiting for review.
func (s *ReconciliationService) Approve(runID, bankID uuid.UUID) error {
	state, err := s.state(runID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := state.session.Approve(bankID.String()); err != nil {
		return err
	}
	s.logAction(runID, &bankID, nil, "approve")
	return nil
}

// Reject declines a candidate waiting for review.
func (s *ReconciliationService) Reject(runID, bankID uuid.UUID) error {
	state, err := s.state(runID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := state.session.Reject(bankID.String()); err != nil {
		return err
	}
	s.logAction(runID, &bankID, nil, "reject")
	return nil
}

// BulkApprove approves everything still in review and returns the count.
func (s *ReconciliationService) BulkApprove(runID uuid.UUID) (int, error) {
	state, err := s.state(runID)
	if err != nil {
		return 0, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	count := state.session.BulkApprove()
	if count > 0 {
		s.logAction(runID, nil, nil, "bulk_approve")
	}
	return count, nil
}

// ManualMatch pairs a bank transaction with a chosen ledger entry,
// overriding the algorithm's verdict.
func (s *ReconciliationService) ManualMatch(runID, bankID, bookID uuid.UUID) error {
	state, err := s.state(runID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	if err := state.session.ManualMatch(bankID.String(), bookID.String()); err != nil {
		return err
	}
	s.logAction(runID, &bankID, &bookID, "manual_match")
	return nil
}

// Finalize closes the run: persists the summary, stamps every matched pair
// onto the bank and book rows and discards the in-memory session. Fails
// with matching.ErrPendingReview while candidates are still in review.
func (s *ReconciliationService) Finalize(runID uuid.UUID) (*matching.Result, error) {
	state, err := s.state(runID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	result, err := state.session.Finalize()
	if err != nil {
		return nil, err
	}

	var bookIDs []uuid.UUID
	seenBooks := make(map[uuid.UUID]bool)
	for _, c := range result.Matched {
		bankUUID, err := uuid.Parse(c.Bank.ID)
		if err != nil {
			return nil, err
		}
		bookUUID, err := uuid.Parse(c.Book.ID)
		if err != nil {
			return nil, err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"status":     c.Status,
			"confidence": c.Confidence,
			"score":      c.Score,
			"book_id":    bookUUID.String(),
		})
		if err := s.bankRepo.MarkReconciled(bankUUID, &bookUUID, float64(c.Confidence), details); err != nil {
			return nil, err
		}
		if !seenBooks[bookUUID] {
			seenBooks[bookUUID] = true
			bookIDs = append(bookIDs, bookUUID)
		}
	}
	for _, tx := range result.UnmatchedBank {
		bankUUID, err := uuid.Parse(tx.ID)
		if err != nil {
			return nil, err
		}
		if err := s.bankRepo.MarkUnmatched(bankUUID); err != nil {
			return nil, err
		}
	}
	if err := s.bookRepo.MarkReconciled(bookIDs); err != nil {
		return nil, err
	}

	summaryJSON, _ := json.Marshal(result)
	stats := state.session.Stats()
	now := time.Now()
	err = s.db.Model(&models.ReconciliationRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":               "finalized",
			"auto_matched_count":   stats.AutoMatched,
			"needs_review_count":   stats.NeedsReview,
			"unmatched_bank_count": stats.UnmatchedBank,
			"unmatched_book_count": stats.UnmatchedBook,
			"summary":              summaryJSON,
			"finalized_at":         now,
		}).Error
	if err != nil {
		return nil, err
	}

	s.logAction(runID, nil, nil, "finalize")
	s.sessions.Delete(runID)

	log.Printf("reconciliation run %s finalized: %d matched, %d unmatched bank, %d unmatched book",
		runID, len(result.Matched), len(result.UnmatchedBank), len(result.UnmatchedBook))

	return result, nil
}

// CreateBankTransaction inserts one imported statement row.
func (s *ReconciliationService) CreateBankTransaction(description string, amount float64, reference string, date time.Time) (*models.BankTransaction, error) {
	return s.bankRepo.Create(description, amount, reference, date)
}

// CreateBookTransaction inserts one ledger entry.
func (s *ReconciliationService) CreateBookTransaction(description string, amount float64, reference string, date time.Time) (*models.BookTransaction, error) {
	return s.bookRepo.Create(description, amount, reference, date)
}

// ListBookTransactions lists ledger entries, filter is "all", "reconciled"
// or "unreconciled".
func (s *ReconciliationService) ListBookTransactions(filter string) ([]models.BookTransaction, error) {
	return s.bookRepo.List(filter)
}

func (s *ReconciliationService) state(runID uuid.UUID) (*runState, error) {
	val, ok := s.sessions.Load(runID)
	if !ok {
		run, err := s.getRun(runID)
		if err != nil {
			return nil, err
		}
		if run.Status == "finalized" {
			return nil, ErrRunFinalized
		}
		// Row exists but the session is gone (restart); callers must
		// start a new run.
		return nil, ErrRunNotFound
	}
	return val.(*runState), nil
}

func (s *ReconciliationService) getRun(runID uuid.UUID) (*models.ReconciliationRun, error) {
	var run models.ReconciliationRun
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (s *ReconciliationService) updateRunStats(runID uuid.UUID, stats matching.Stats) error {
	return s.db.Model(&models.ReconciliationRun{}).
		Where("id = ?", runID).
		Updates(map[string]interface{}{
			"auto_matched_count":   stats.AutoMatched,
			"needs_review_count":   stats.NeedsReview,
			"unmatched_bank_count": stats.UnmatchedBank,
			"unmatched_book_count": stats.UnmatchedBook,
		}).Error
}

func (s *ReconciliationService) logAction(runID uuid.UUID, bankID, bookID *uuid.UUID, action string) {
	entry := models.MatchAuditLog{
		ID:                uuid.New(),
		RunID:             runID,
		BankTransactionID: bankID,
		BookTransactionID: bookID,
		Action:            action,
		CreatedAt:         time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Println("failed to write audit log:", err)
	}
}
