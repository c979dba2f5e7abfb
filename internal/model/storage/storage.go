package storage

import (
	"context"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

// RecordStorage is the persistence port of the tracker: an ordered record
// collection plus the budget scalar, both keyed by user.
type RecordStorage interface {
	GetRecords(ctx context.Context, userID int64) ([]expense.Record, error)
	AppendRecords(ctx context.Context, userID int64, recs []expense.Record) error
	DeleteRecord(ctx context.Context, userID int64, recordID string) (bool, error)
	GetBudget(ctx context.Context, userID int64) (float64, error)
	SetBudget(ctx context.Context, userID int64, budget float64) error
}
