package tracker

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound covers both a genuinely missing record and a record owned by
// someone else; the two must be indistinguishable.
var ErrNotFound = errors.New("Not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("NOT_FOUND")

// Store persists the owned resources. Every query conjoins the owner id
// with the natural key; a natural-key hit under the wrong owner behaves
// exactly like a miss.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Classes

func (s *Store) ListClasses(ctx context.Context, owner uuid.UUID) ([]ClassItem, error) {
	items := []ClassItem{}
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.user_id = ?", owner).
		Order("day ASC", "start_time ASC").
		Scan(ctx)
	return items, err
}

func (s *Store) CreateClass(ctx context.Context, owner uuid.UUID, record *ClassItem) (*ClassItem, error) {
	record.ID = uuid.New()
	record.UserID = owner
	if record.Color == "" {
		record.Color = DefaultClassColor
	}

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) GetClass(ctx context.Context, owner, id uuid.UUID) (*ClassItem, error) {
	record := &ClassItem{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// ClassPatch carries the mutable class fields; nil means leave unchanged.
type ClassPatch struct {
	Subject    *string `json:"subject"`
	Instructor *string `json:"instructor"`
	Day        *Day    `json:"day"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Color      *string `json:"color"`
}

func (s *Store) UpdateClass(ctx context.Context, owner, id uuid.UUID, patch ClassPatch) (*ClassItem, error) {
	record, err := s.GetClass(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	apply(&record.Subject, patch.Subject)
	apply(&record.Instructor, patch.Instructor)
	apply(&record.Day, patch.Day)
	apply(&record.StartTime, patch.StartTime)
	apply(&record.EndTime, patch.EndTime)
	apply(&record.Color, patch.Color)
	touch(&record.UpdatedAt)

	_, err = s.db.NewUpdate().
		Model(record).
		WherePK().
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteClass is idempotent: deleting a record that does not exist (or is
// not yours) succeeds without effect.
func (s *Store) DeleteClass(ctx context.Context, owner, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*ClassItem)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	return err
}

// Tasks

func (s *Store) ListTasks(ctx context.Context, owner uuid.UUID) ([]Task, error) {
	items := []Task{}
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.user_id = ?", owner).
		Order("completed ASC", "deadline ASC").
		Scan(ctx)
	return items, err
}

// CompletedTasks feeds the study-pattern heuristics with the most recent
// finished work.
func (s *Store) CompletedTasks(ctx context.Context, owner uuid.UUID, limit int) ([]Task, error) {
	items := []Task{}
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.user_id = ?", owner).
		Where("?TableAlias.completed = TRUE").
		Order("completed_at DESC").
		Limit(limit).
		Scan(ctx)
	return items, err
}

func (s *Store) CreateTask(ctx context.Context, owner uuid.UUID, record *Task) (*Task, error) {
	record.ID = uuid.New()
	record.UserID = owner
	if record.Priority == "" {
		record.Priority = PriorityMedium
	}

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) GetTask(ctx context.Context, owner, id uuid.UUID) (*Task, error) {
	record := &Task{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// TaskPatch carries the mutable task fields; nil means leave unchanged.
type TaskPatch struct {
	Subject   *string    `json:"subject"`
	Topic     *string    `json:"topic"`
	Priority  *Priority  `json:"priority"`
	Deadline  *time.Time `json:"deadline"`
	Completed *bool      `json:"completed"`
}

func (s *Store) UpdateTask(ctx context.Context, owner, id uuid.UUID, patch TaskPatch) (*Task, error) {
	record, err := s.GetTask(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	apply(&record.Subject, patch.Subject)
	apply(&record.Topic, patch.Topic)
	apply(&record.Priority, patch.Priority)
	if patch.Deadline != nil {
		record.Deadline = patch.Deadline
	}
	if patch.Completed != nil {
		record.Completed = *patch.Completed
		if *patch.Completed {
			touch(&record.CompletedAt)
		} else {
			record.CompletedAt = nil
		}
	}
	touch(&record.UpdatedAt)

	_, err = s.db.NewUpdate().
		Model(record).
		WherePK().
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) DeleteTask(ctx context.Context, owner, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	return err
}

// Transactions

func (s *Store) ListTransactions(ctx context.Context, owner uuid.UUID) ([]Transaction, error) {
	items := []Transaction{}
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.user_id = ?", owner).
		Order("date DESC").
		Scan(ctx)
	return items, err
}

// TransactionsInRange returns ledger entries with from <= date < to.
func (s *Store) TransactionsInRange(ctx context.Context, owner uuid.UUID, from, to time.Time) ([]Transaction, error) {
	items := []Transaction{}
	err := s.db.NewSelect().
		Model(&items).
		Where("?TableAlias.user_id = ?", owner).
		Where("?TableAlias.date >= ?", from).
		Where("?TableAlias.date < ?", to).
		Order("date ASC").
		Scan(ctx)
	return items, err
}

func (s *Store) CreateTransaction(ctx context.Context, owner uuid.UUID, record *Transaction) (*Transaction, error) {
	record.ID = uuid.New()
	record.UserID = owner
	if record.Date.IsZero() {
		record.Date = time.Now()
	}

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) GetTransaction(ctx context.Context, owner, id uuid.UUID) (*Transaction, error) {
	record := &Transaction{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// TransactionPatch carries the mutable ledger fields; nil means leave
// unchanged.
type TransactionPatch struct {
	Type     *TransactionType `json:"type"`
	Amount   *float64         `json:"amount"`
	Category *string          `json:"category"`
	Note     *string          `json:"note"`
	Date     *time.Time       `json:"date"`
}

func (s *Store) UpdateTransaction(ctx context.Context, owner, id uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	record, err := s.GetTransaction(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	apply(&record.Type, patch.Type)
	apply(&record.Category, patch.Category)
	apply(&record.Note, patch.Note)
	if patch.Amount != nil {
		record.Amount = *patch.Amount
	}
	if patch.Date != nil {
		record.Date = *patch.Date
	}
	touch(&record.UpdatedAt)

	_, err = s.db.NewUpdate().
		Model(record).
		WherePK().
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, owner, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*Transaction)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Exec(ctx)
	return err
}

// MonthSummary totals the full ledger the way the original summary
// endpoint does: income, expense, and the running balance.
func (s *Store) MonthSummary(ctx context.Context, owner uuid.UUID) (MonthlySummary, error) {
	items, err := s.ListTransactions(ctx, owner)
	if err != nil {
		return MonthlySummary{}, err
	}
	return Summarize(items), nil
}

// Summarize folds ledger entries into a summary.
func Summarize(items []Transaction) MonthlySummary {
	var out MonthlySummary
	for _, item := range items {
		switch item.Type {
		case TransactionIncome:
			out.Income += item.Amount
		case TransactionExpense:
			out.Expense += item.Amount
		}
	}
	out.Balance = out.Income - out.Expense
	return out
}

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func touch(ts **time.Time) {
	now := time.Now()
	*ts = &now
}
