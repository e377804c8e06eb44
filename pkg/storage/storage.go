package storage

import (
	"context"

	"github.com/chris/allowance-ledger/pkg/models"
)

// MaxConsumePerChange is the number of pending entries a single balance change may consume.
// A DynamoDB transaction holds at most 100 items and a change also writes the balance, one log
// entry and at most one todo.
const MaxConsumePerChange = 97

// BalanceChange describes one atomic balance mutation.
type BalanceChange struct {
	// Apply computes the new balance from the current one. It is called again on every retry.
	Apply func(before models.Money) models.Money
	// Log is the template for the audit entry. UserID, Amount, BalanceBefore and BalanceAfter are filled in by the store.
	Log models.BalanceLog
	// Consume lists pending entries that must still exist. They are deleted in the same write.
	Consume []models.PendingEntry
	// Todo, if set, is written in the same write. The change fails with ErrConflict if the
	// todo is gone or no longer in its expected state.
	Todo *TodoWrite
}

// TodoWrite moves a todo out of its Expected completion state.
type TodoWrite struct {
	Todo     models.Todo
	Expected models.Completion
	// Delete removes the todo instead of replacing it.
	Delete bool
}

// AccountStore manages user accounts and their reward settings.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	UpdateSettings(ctx context.Context, userID string, settings models.Settings) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// BalanceStore reads balances and applies audited balance changes.
type BalanceStore interface {
	// GetBalance returns the user's balance, or a zero balance at version 0 if none has been written yet.
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)
	// ApplyBalanceChange writes the new balance, the log entry and the pending deletions atomically.
	ApplyBalanceChange(ctx context.Context, userID string, change BalanceChange) (*models.BalanceLog, error)
	// ListBalanceLogs returns the newest entries first. A limit <= 0 returns every entry.
	ListBalanceLogs(ctx context.Context, userID string, limit int) ([]models.BalanceLog, error)
}

// TodoStore manages todos.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error)
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	// ListTodosByState returns the todos of every user with the given recurrence and completion state.
	ListTodosByState(ctx context.Context, repeat models.Repeat, completed models.Completion) ([]models.Todo, error)
	// UpdateTodo replaces the todo if it still has the expected completion state.
	UpdateTodo(ctx context.Context, todo *models.Todo, expected models.Completion) error
	DeleteTodo(ctx context.Context, userID, todoID string) error
}

// PendingStore manages pending reward entries.
type PendingStore interface {
	CreatePending(ctx context.Context, entry *models.PendingEntry) error
	GetPending(ctx context.Context, userID, pendingID string) (*models.PendingEntry, error)
	ListPending(ctx context.Context, userID string) ([]models.PendingEntry, error)
	ListPendingByReference(ctx context.Context, userID, referenceID string) ([]models.PendingEntry, error)
	DeletePending(ctx context.Context, userID, pendingID string) error
}

// ScheduleStore records which period each scheduled pass last ran for.
type ScheduleStore interface {
	// ClaimScheduleRun records run unless the pass for the same period is done, or is still
	// running and its lease has not expired at run.ClaimedAt. It fails with ErrAlreadyClaimed then.
	ClaimScheduleRun(ctx context.Context, run models.ScheduleRun) error
	// SaveScheduleRun records the progress of a claimed pass.
	SaveScheduleRun(ctx context.Context, run models.ScheduleRun) error
	GetScheduleRun(ctx context.Context, repeat models.Repeat) (*models.ScheduleRun, error)
}

// CatalogStore manages behaviors, their activities, and events.
type CatalogStore interface {
	CreateBehavior(ctx context.Context, behavior *models.Behavior) error
	GetBehavior(ctx context.Context, userID, behaviorID string) (*models.Behavior, error)
	ListBehaviors(ctx context.Context, userID string) ([]models.Behavior, error)
	UpdateBehavior(ctx context.Context, behavior *models.Behavior) error
	// DeleteBehavior removes the behavior together with all of its activities.
	DeleteBehavior(ctx context.Context, userID, behaviorID string) error

	// CreateActivity fails with ErrNotFound if the parent behavior does not exist.
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetActivity(ctx context.Context, activityID string) (*models.Activity, error)
	ListActivities(ctx context.Context, userID, behaviorID string) ([]models.Activity, error)
	UpdateActivity(ctx context.Context, activity *models.Activity) error
	DeleteActivity(ctx context.Context, userID, behaviorID, activityID string) error

	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	ListEvents(ctx context.Context, userID string) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

// LedgerStore is everything the reward reconciler needs.
type LedgerStore interface {
	AccountStore
	BalanceStore
	TodoStore
	PendingStore
	ScheduleStore
}

// Storage defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on the
// more granular interfaces (LedgerStore, CatalogStore, etc.) instead of this one.
type Storage interface {
	LedgerStore
	CatalogStore
	ConnectionStore
}
