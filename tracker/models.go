// Package tracker holds the owned resources of an account: the class
// schedule, the task list, and the budget ledger. Every read and write is
// scoped to the owning identity at the query boundary.
package tracker

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Day is a schedule day name.
type Day = string

const (
	DayMon Day = "Mon"
	DayTue Day = "Tue"
	DayWed Day = "Wed"
	DayThu Day = "Thu"
	DayFri Day = "Fri"
	DaySat Day = "Sat"
	DaySun Day = "Sun"
)

// Days lists the valid schedule days, Sunday first to match time.Weekday.
var Days = []Day{DaySun, DayMon, DayTue, DayWed, DayThu, DayFri, DaySat}

// Priority is a task priority level.
type Priority = string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TransactionType partitions the ledger.
type TransactionType = string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// DefaultClassColor is the display color assigned when none is given.
const DefaultClassColor = "#3b82f6"

// ClassItem is one recurring slot in the weekly schedule.
type ClassItem struct {
	bun.BaseModel `bun:"table:classes,alias:cls"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Subject       string     `bun:"subject,notnull" json:"subject,omitempty"`
	Instructor    string     `bun:"instructor" json:"instructor,omitempty"`
	Day           Day        `bun:"day,notnull" json:"day,omitempty"`
	StartTime     string     `bun:"start_time,notnull" json:"start_time,omitempty"`
	EndTime       string     `bun:"end_time,notnull" json:"end_time,omitempty"`
	Color         string     `bun:"color,notnull" json:"color,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Task is one entry in the study task list.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Subject       string     `bun:"subject,notnull" json:"subject,omitempty"`
	Topic         string     `bun:"topic,notnull" json:"topic,omitempty"`
	Priority      Priority   `bun:"priority,notnull" json:"priority,omitempty"`
	Deadline      *time.Time `bun:"deadline,nullzero" json:"deadline,omitempty"`
	Completed     bool       `bun:"completed,notnull,default:false" json:"completed"`
	CompletedAt   *time.Time `bun:"completed_at,nullzero" json:"completed_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Transaction is one entry in the budget ledger.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:txn"`
	ID            uuid.UUID       `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID       `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Type          TransactionType `bun:"type,notnull" json:"type,omitempty"`
	Amount        float64         `bun:"amount,notnull" json:"amount"`
	Category      string          `bun:"category,notnull" json:"category,omitempty"`
	Note          string          `bun:"note" json:"note,omitempty"`
	Date          time.Time       `bun:"date,notnull" json:"date"`
	CreatedAt     *time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// MonthlySummary aggregates the ledger for one account.
type MonthlySummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}
