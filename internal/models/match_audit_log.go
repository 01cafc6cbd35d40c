package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchAuditLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID             uuid.UUID `gorm:"index"`
	BankTransactionID *uuid.UUID
	BookTransactionID *uuid.UUID
	Action            string // approve | reject | bulk_approve | manual_match | rerun | finalize
	CreatedAt         time.Time
}
