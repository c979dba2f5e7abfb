package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/clients/kv"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

// Key layout mirrors the two independent entries the tracker keeps: the
// JSON record array and the budget scalar.
const (
	recordsKeyTemplate = "expenses_v1:%d"
	budgetKeyTemplate  = "budget_v1:%d"
)

type kvPort interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// KVStorage keeps records and budgets in an injected key-value port.
// Unreadable values degrade to the defaults (empty set, zero budget) with
// a logged error, so a corrupt entry never takes the tracker down.
type KVStorage struct {
	store kvPort
}

func NewKVStorage(store kvPort) *KVStorage {
	return &KVStorage{store: store}
}

func recordsKey(userID int64) string {
	return fmt.Sprintf(recordsKeyTemplate, userID)
}

func budgetKey(userID int64) string {
	return fmt.Sprintf(budgetKeyTemplate, userID)
}

func (s *KVStorage) GetRecords(_ context.Context, userID int64) ([]expense.Record, error) {
	raw, err := s.store.Get(recordsKey(userID))
	if errors.Is(err, kv.ErrNoKey) {
		return []expense.Record{}, nil
	}
	if err != nil {
		logger.Error("read records", zap.Int64("userID", userID), zap.Error(err))
		return []expense.Record{}, nil
	}

	var recs []expense.Record
	if err = json.Unmarshal(raw, &recs); err != nil {
		logger.Error("decode records", zap.Int64("userID", userID), zap.Error(err))
		return []expense.Record{}, nil
	}
	return recs, nil
}

func (s *KVStorage) AppendRecords(ctx context.Context, userID int64, recs []expense.Record) error {
	existing, err := s.GetRecords(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "append records")
	}

	raw, err := json.Marshal(append(existing, recs...))
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	return errors.Wrap(s.store.Set(recordsKey(userID), raw), "append records")
}

func (s *KVStorage) DeleteRecord(ctx context.Context, userID int64, recordID string) (bool, error) {
	existing, err := s.GetRecords(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "delete record")
	}

	kept := make([]expense.Record, 0, len(existing))
	for _, rec := range existing {
		if rec.ID != recordID {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(existing) {
		return false, nil
	}

	raw, err := json.Marshal(kept)
	if err != nil {
		return false, errors.Wrap(err, "encode records")
	}
	return true, errors.Wrap(s.store.Set(recordsKey(userID), raw), "delete record")
}

func (s *KVStorage) GetBudget(_ context.Context, userID int64) (float64, error) {
	raw, err := s.store.Get(budgetKey(userID))
	if errors.Is(err, kv.ErrNoKey) {
		return 0, nil
	}
	if err != nil {
		logger.Error("read budget", zap.Int64("userID", userID), zap.Error(err))
		return 0, nil
	}

	var budget float64
	if err = json.Unmarshal(raw, &budget); err != nil {
		logger.Error("decode budget", zap.Int64("userID", userID), zap.Error(err))
		return 0, nil
	}
	return budget, nil
}

func (s *KVStorage) SetBudget(_ context.Context, userID int64, budget float64) error {
	raw, err := json.Marshal(budget)
	if err != nil {
		return errors.Wrap(err, "encode budget")
	}
	return errors.Wrap(s.store.Set(budgetKey(userID), raw), "set budget")
}
