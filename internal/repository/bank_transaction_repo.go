package repository

import (
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

// Expose DB if needed
func (r *BankTransactionRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts a single bank statement row.
func (r *BankTransactionRepository) Create(description string, amount float64, reference string, date time.Time) (*models.BankTransaction, error) {
	tx := &models.BankTransaction{
		ID:              uuid.New(),
		TransactionDate: date,
		Description:     description,
		Amount:          amount,
		ReferenceNumber: reference,
		Status:          "pending",
		CreatedAt:       time.Now(),
	}
	if err := r.db.Create(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

// ListPending returns every bank transaction not yet consumed by a
// finalized run, oldest first.
func (r *BankTransactionRepository) ListPending() ([]models.BankTransaction, error) {
	var txs []models.BankTransaction
	err := r.db.
		Where("status = ?", "pending").
		Order("transaction_date ASC, created_at ASC").
		Find(&txs).Error
	return txs, err
}

// MarkReconciled records the finalized pairing on a bank transaction.
func (r *BankTransactionRepository) MarkReconciled(id uuid.UUID, bookID *uuid.UUID, confidence float64, details []byte) error {
	return r.db.Model(&models.BankTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           "reconciled",
			"matched_book_id":  bookID,
			"confidence_score": confidence,
			"match_details":    details,
		}).Error
}

// MarkUnmatched flags a bank transaction that survived finalization with no
// pairing.
func (r *BankTransactionRepository) MarkUnmatched(id uuid.UUID) error {
	return r.db.Model(&models.BankTransaction{}).
		Where("id = ?", id).
		Update("status", "unmatched").Error
}
