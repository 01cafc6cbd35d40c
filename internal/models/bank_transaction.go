package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BankTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionDate time.Time `gorm:"column:transaction_date;index"`
	Description     string
	Amount          float64 `gorm:"index"`
	ReferenceNumber string
	Status          string     `gorm:"index"` // pending | reconciled | unmatched
	MatchedBookID   *uuid.UUID `gorm:"column:matched_book_id"`
	ConfidenceScore float64
	MatchDetails    datatypes.JSON
	CreatedAt       time.Time
}
