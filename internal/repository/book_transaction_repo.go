package repository

import (
	"time"

	"bank-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookTransactionRepository struct {
	db *gorm.DB
}

func NewBookTransactionRepository(db *gorm.DB) *BookTransactionRepository {
	return &BookTransactionRepository{db: db}
}

// Expose DB if needed
func (r *BookTransactionRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts a single ledger entry.
func (r *BookTransactionRepository) Create(description string, amount float64, reference string, date time.Time) (*models.BookTransaction, error) {
	entry := &models.BookTransaction{
		ID:          uuid.New(),
		EntryDate:   date,
		Description: description,
		Amount:      amount,
		Reference:   reference,
		CreatedAt:   time.Now(),
	}
	if err := r.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListUnreconciled returns ledger entries that no finalized run has
// consumed, oldest first.
func (r *BookTransactionRepository) ListUnreconciled() ([]models.BookTransaction, error) {
	var entries []models.BookTransaction
	err := r.db.
		Where("reconciled = ?", false).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

// List returns ledger entries with optional reconciled filtering
// ("all", "reconciled", "unreconciled").
func (r *BookTransactionRepository) List(filter string) ([]models.BookTransaction, error) {
	var entries []models.BookTransaction
	query := r.db.Order("entry_date ASC, created_at ASC")

	switch filter {
	case "reconciled":
		query = query.Where("reconciled = ?", true)
	case "unreconciled":
		query = query.Where("reconciled = ?", false)
	}

	err := query.Find(&entries).Error
	return entries, err
}

// MarkReconciled flags a batch of ledger entries as consumed.
func (r *BookTransactionRepository) MarkReconciled(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.BookTransaction{}).
		Where("id IN ?", ids).
		Update("reconciled", true).Error
}
