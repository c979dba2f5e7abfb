package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	// postgres driver
	_ "github.com/lib/pq"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

const connectAttempts = 5

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// PostgresStorage keeps records and budgets in postgres, for setups where
// a single data file is not enough.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}

	err = retry.Do(db.Ping,
		retry.Attempts(connectAttempts),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database ping failed, retrying", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) GetRecords(ctx context.Context, userID int64) ([]expense.Record, error) {
	query := psql.Select("id", "title", "amount", "category", "spent_at", "note").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get records")
	}
	defer func() {
		if rowErr := rows.Close(); rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	recs := make([]expense.Record, 0)
	for rows.Next() {
		var rec expense.Record
		err = rows.Scan(&rec.ID, &rec.Title, &rec.Amount, &rec.Category, &rec.Date, &rec.Note)
		if err != nil {
			return nil, errors.Wrap(err, "get records")
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get records")
	}

	return recs, nil
}

func (s *PostgresStorage) AppendRecords(ctx context.Context, userID int64, recs []expense.Record) error {
	if len(recs) == 0 {
		return nil
	}

	query := psql.Insert("expenses").
		Columns("id", "user_id", "title", "amount", "category", "spent_at", "note", "created_at")
	for _, rec := range recs {
		query = query.Values(rec.ID, userID, rec.Title, rec.Amount, rec.Category, rec.Date, rec.Note, time.Now())
	}

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "append records")
}

func (s *PostgresStorage) DeleteRecord(ctx context.Context, userID int64, recordID string) (bool, error) {
	query := psql.Delete("expenses").
		Where(sq.Eq{"user_id": userID, "id": recordID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "delete record")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete record")
	}
	return affected > 0, nil
}

func (s *PostgresStorage) GetBudget(ctx context.Context, userID int64) (float64, error) {
	query := psql.Select("amount").
		From("budgets").
		Where(sq.Eq{"user_id": userID})

	var budget float64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&budget)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return budget, errors.Wrap(err, "get budget")
}

func (s *PostgresStorage) SetBudget(ctx context.Context, userID int64, budget float64) error {
	query := psql.Insert("budgets").
		Columns("user_id", "amount", "updated_at").
		Values(userID, budget, time.Now()).
		Suffix("ON CONFLICT(user_id) DO UPDATE SET amount = ?, updated_at = ?", budget, time.Now())

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "set budget")
}
