package models

import (
	"time"

	"github.com/google/uuid"
)

// BookTransaction is a ledger entry waiting to be reconciled against an
// imported bank statement row.
type BookTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryDate   time.Time `gorm:"index"`
	Description string
	Amount      float64 `gorm:"index"`
	Reference   string
	Reconciled  bool `gorm:"index"`
	CreatedAt   time.Time
}
