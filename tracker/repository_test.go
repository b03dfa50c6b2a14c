package tracker_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/zenith-app/zenith-api/tracker"
)

const (
	sqliteCreateClasses = `CREATE TABLE classes (
    id TEXT NOT NULL PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    instructor TEXT NOT NULL DEFAULT '',
    day TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    color TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	sqliteCreateTasks = `CREATE TABLE tasks (
    id TEXT NOT NULL PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    topic TEXT NOT NULL,
    priority TEXT NOT NULL,
    deadline TIMESTAMP NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	sqliteCreateTransactions = `CREATE TABLE transactions (
    id TEXT NOT NULL PRIMARY KEY,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL,
    amount REAL NOT NULL,
    category TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    date TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
)

func setupStore(t *testing.T) *tracker.Store {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	for _, stmt := range []string{sqliteCreateClasses, sqliteCreateTasks, sqliteCreateTransactions} {
		_, err = bunDB.Exec(stmt)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return tracker.NewStore(bunDB)
}

func ptr[T any](v T) *T { return &v }

func TestStoreClasses(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	created, err := store.CreateClass(ctx, alice, &tracker.ClassItem{
		Subject:   "Mathematics",
		Day:       tracker.DayMon,
		StartTime: "09:00",
		EndTime:   "10:30",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, alice, created.UserID)
	assert.Equal(t, tracker.DefaultClassColor, created.Color, "missing color falls back to the default")

	t.Run("listing is scoped to the owner", func(t *testing.T) {
		mine, err := store.ListClasses(ctx, alice)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		theirs, err := store.ListClasses(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, theirs)
	})

	t.Run("someone else's record reads as missing", func(t *testing.T) {
		_, err := store.GetClass(ctx, bob, created.ID)
		assert.ErrorIs(t, err, tracker.ErrNotFound)

		found, err := store.GetClass(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", found.Subject)
	})

	t.Run("patch updates only the given fields", func(t *testing.T) {
		updated, err := store.UpdateClass(ctx, alice, created.ID, tracker.ClassPatch{
			Instructor: ptr("Dr. Chen"),
			Color:      ptr("#ff0000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Dr. Chen", updated.Instructor)
		assert.Equal(t, "#ff0000", updated.Color)
		assert.Equal(t, "Mathematics", updated.Subject)
		assert.Equal(t, "09:00", updated.StartTime)
		require.NotNil(t, updated.UpdatedAt)
	})

	t.Run("a stranger cannot update", func(t *testing.T) {
		_, err := store.UpdateClass(ctx, bob, created.ID, tracker.ClassPatch{
			Subject: ptr("Hijacked"),
		})
		assert.ErrorIs(t, err, tracker.ErrNotFound)

		found, err := store.GetClass(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", found.Subject)
	})

	t.Run("a stranger's delete is a no-op", func(t *testing.T) {
		require.NoError(t, store.DeleteClass(ctx, bob, created.ID))

		_, err := store.GetClass(ctx, alice, created.ID)
		assert.NoError(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteClass(ctx, alice, created.ID))
		require.NoError(t, store.DeleteClass(ctx, alice, created.ID))

		_, err := store.GetClass(ctx, alice, created.ID)
		assert.ErrorIs(t, err, tracker.ErrNotFound)
	})
}

func TestStoreTasks(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	owner := uuid.New()
	deadline := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)

	created, err := store.CreateTask(ctx, owner, &tracker.Task{
		Subject:  "Science",
		Topic:    "Photosynthesis",
		Deadline: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, tracker.PriorityMedium, created.Priority, "missing priority defaults to medium")

	t.Run("completing sets the completion timestamp", func(t *testing.T) {
		updated, err := store.UpdateTask(ctx, owner, created.ID, tracker.TaskPatch{
			Completed: ptr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		require.NotNil(t, updated.CompletedAt)
	})

	t.Run("reopening clears the completion timestamp", func(t *testing.T) {
		updated, err := store.UpdateTask(ctx, owner, created.ID, tracker.TaskPatch{
			Completed: ptr(false),
		})
		require.NoError(t, err)
		assert.False(t, updated.Completed)
		assert.Nil(t, updated.CompletedAt)
	})

	t.Run("completed tasks feed is limited and most recent first", func(t *testing.T) {
		for i, topic := range []string{"Algebra", "Cells", "Essays"} {
			task, err := store.CreateTask(ctx, owner, &tracker.Task{
				Subject:  "Mixed",
				Topic:    topic,
				Priority: tracker.PriorityHigh,
			})
			require.NoError(t, err)

			// stagger completion times so ordering is deterministic
			time.Sleep(time.Duration(i+1) * 5 * time.Millisecond)
			_, err = store.UpdateTask(ctx, owner, task.ID, tracker.TaskPatch{Completed: ptr(true)})
			require.NoError(t, err)
		}

		recent, err := store.CompletedTasks(ctx, owner, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "Essays", recent[0].Topic)
		assert.Equal(t, "Cells", recent[1].Topic)
	})

	t.Run("open tasks list before completed ones", func(t *testing.T) {
		items, err := store.ListTasks(ctx, owner)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.False(t, items[0].Completed)
	})
}

func TestStoreTransactions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	owner := uuid.New()

	created, err := store.CreateTransaction(ctx, owner, &tracker.Transaction{
		Type:     tracker.TransactionIncome,
		Amount:   1200,
		Category: "Allowance",
	})
	require.NoError(t, err)
	assert.False(t, created.Date.IsZero(), "missing date defaults to now")

	_, err = store.CreateTransaction(ctx, owner, &tracker.Transaction{
		Type:     tracker.TransactionExpense,
		Amount:   300,
		Category: "Food",
		Date:     time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = store.CreateTransaction(ctx, owner, &tracker.Transaction{
		Type:     tracker.TransactionExpense,
		Amount:   50,
		Category: "Transport",
		Date:     time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	t.Run("range is inclusive of the start and exclusive of the end", func(t *testing.T) {
		from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)

		items, err := store.TransactionsInRange(ctx, owner, from, to)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Food", items[0].Category)
	})

	t.Run("summary folds the whole ledger", func(t *testing.T) {
		summary, err := store.MonthSummary(ctx, owner)
		require.NoError(t, err)
		assert.InDelta(t, 1200.0, summary.Income, 0.001)
		assert.InDelta(t, 350.0, summary.Expense, 0.001)
		assert.InDelta(t, 850.0, summary.Balance, 0.001)
	})

	t.Run("another owner sees an empty ledger", func(t *testing.T) {
		summary, err := store.MonthSummary(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, summary.Income)
		assert.Zero(t, summary.Expense)
		assert.Zero(t, summary.Balance)
	})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		items []tracker.Transaction
		want  tracker.MonthlySummary
	}{
		{
			name: "mixed ledger",
			items: []tracker.Transaction{
				{Type: tracker.TransactionIncome, Amount: 100},
				{Type: tracker.TransactionIncome, Amount: 25.5},
				{Type: tracker.TransactionExpense, Amount: 40},
			},
			want: tracker.MonthlySummary{Income: 125.5, Expense: 40, Balance: 85.5},
		},
		{
			name:  "empty ledger",
			items: nil,
			want:  tracker.MonthlySummary{},
		},
		{
			name: "expenses only go negative",
			items: []tracker.Transaction{
				{Type: tracker.TransactionExpense, Amount: 60},
			},
			want: tracker.MonthlySummary{Expense: 60, Balance: -60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tracker.Summarize(tt.items)
			assert.InDelta(t, tt.want.Income, got.Income, 0.001)
			assert.InDelta(t, tt.want.Expense, got.Expense, 0.001)
			assert.InDelta(t, tt.want.Balance, got.Balance, 0.001)
		})
	}
}
