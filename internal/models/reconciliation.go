package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReconciliationRun struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status             string    `gorm:"index"` // matching | finalized
	TotalBank          int
	TotalBook          int
	AutoMatchedCount   int
	NeedsReviewCount   int
	UnmatchedBankCount int
	UnmatchedBookCount int
	Settings           datatypes.JSON
	Summary            datatypes.JSON
	StartedAt          time.Time
	FinalizedAt        *time.Time
	CreatedAt          time.Time
}
