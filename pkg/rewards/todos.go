package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// CreateTodoInput describes a new todo. Repeat defaults to once.
type CreateTodoInput struct {
	UserID string       `json:"userId"`
	Text   string       `json:"text"`
	Money  models.Money `json:"money"`
	Repeat string       `json:"repeat"`
}

// UpdateTodoInput is a partial todo update. Nil fields keep their current value.
type UpdateTodoInput struct {
	UserID    string             `json:"userId"`
	TodoID    string             `json:"todoId"`
	Text      *string            `json:"text,omitempty"`
	Money     *models.Money      `json:"money,omitempty"`
	Repeat    *string            `json:"repeat,omitempty"`
	Completed *models.Completion `json:"completed,omitempty"`
}

// CreateTodo creates a todo in the not-completed state.
func (s *Service) CreateTodo(ctx context.Context, in CreateTodoInput) (*models.Todo, error) {
	const op = "create todo"
	text := strings.TrimSpace(in.Text)
	if in.UserID == "" || text == "" {
		return nil, validationError(op, "userId and non-empty text are required")
	}
	if in.Money.IsNegative() {
		return nil, validationError(op, "money must not be negative")
	}
	repeat := models.Once
	if in.Repeat != "" {
		r, err := models.ParseRepeat(in.Repeat)
		if err != nil {
			return nil, validationError(op, "%v", err)
		}
		repeat = r
	}

	todo := &models.Todo{
		TodoID:    s.NewID(),
		UserID:    in.UserID,
		Text:      text,
		Completed: models.NotCompleted,
		Money:     in.Money,
		Repeat:    repeat,
		CreatedAt: s.Now(),
	}
	if err := s.Store.CreateTodo(ctx, todo); err != nil {
		return nil, storageError(op, "failed to create todo", err)
	}
	return todo, nil
}

// GetTodo returns one todo.
func (s *Service) GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	const op = "get todo"
	if userID == "" || todoID == "" {
		return nil, validationError(op, "userId and todoId are required")
	}
	todo, err := s.Store.GetTodo(ctx, userID, todoID)
	if err != nil {
		return nil, storageError(op, "todo not found", err)
	}
	return todo, nil
}

// ListTodos returns the user's todos.
func (s *Service) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	const op = "list todos"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	todos, err := s.Store.ListTodos(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch todos", err)
	}
	return todos, nil
}

// UpdateTodo edits a todo and applies the side effects of its completion transition:
//
//	false   -> pending  records a pending reward of the todo's money, if any
//	pending -> false    discards the todo's pending rewards
//	pending -> true     approves the todo's pending rewards into the balance
//	true    -> false    manual reset
//
// Any other transition is rejected.
func (s *Service) UpdateTodo(ctx context.Context, in UpdateTodoInput) (*models.Todo, error) {
	const op = "update todo"
	if in.UserID == "" || in.TodoID == "" {
		return nil, validationError(op, "userId and todoId are required")
	}

	existing, err := s.Store.GetTodo(ctx, in.UserID, in.TodoID)
	if err != nil {
		return nil, storageError(op, "todo not found", err)
	}

	updated := *existing
	if in.Text != nil && strings.TrimSpace(*in.Text) != "" {
		updated.Text = strings.TrimSpace(*in.Text)
	}
	if in.Money != nil {
		if in.Money.IsNegative() {
			return nil, validationError(op, "money must not be negative")
		}
		updated.Money = *in.Money
	}
	if in.Repeat != nil {
		r, err := models.ParseRepeat(*in.Repeat)
		if err != nil {
			return nil, validationError(op, "%v", err)
		}
		updated.Repeat = r
	}

	from := existing.Completed
	to := from
	if in.Completed != nil {
		to = *in.Completed
	}
	if !allowedTransition(from, to) {
		return nil, validationError(op, "cannot move todo from %s to %s", from, to)
	}
	updated.Completed = to

	switch {
	case from == models.PendingApproval && to == models.Approved:
		if _, err := s.approveTodo(ctx, storage.TodoWrite{Todo: updated, Expected: from}, models.SourceEditModeApproval); err != nil {
			return nil, storageError(op, "failed to approve todo rewards", err)
		}

	case from == models.NotCompleted && to == models.PendingApproval && updated.Money.IsPositive():
		entry := &models.PendingEntry{
			PendingID:   s.NewID(),
			UserID:      updated.UserID,
			Amount:      updated.Money,
			Reason:      fmt.Sprintf("Completed todo: %s", updated.Text),
			Type:        models.PendingFromTodo,
			ReferenceID: updated.TodoID,
			CreatedAt:   s.Now(),
		}
		if err := s.Store.CreatePending(ctx, entry); err != nil {
			return nil, storageError(op, "failed to record pending reward", err)
		}
		if err := s.Store.UpdateTodo(ctx, &updated, from); err != nil {
			if delErr := s.Store.DeletePending(ctx, entry.UserID, entry.PendingID); delErr != nil {
				s.Logger.Error("failed to remove pending reward of unchanged todo", "user_id", entry.UserID, "pending_id", entry.PendingID, "error", delErr)
			}
			return nil, storageError(op, "failed to update todo", err)
		}

	default:
		if err := s.Store.UpdateTodo(ctx, &updated, from); err != nil {
			return nil, storageError(op, "failed to update todo", err)
		}
		if to == models.NotCompleted {
			if _, err := s.discardPending(ctx, updated.UserID, updated.TodoID); err != nil {
				return nil, storageError(op, "failed to discard pending rewards", err)
			}
		}
	}

	return &updated, nil
}

func allowedTransition(from, to models.Completion) bool {
	if from == to {
		return true
	}
	switch from {
	case models.NotCompleted:
		return to == models.PendingApproval
	case models.PendingApproval:
		return to == models.NotCompleted || to == models.Approved
	case models.Approved:
		return to == models.NotCompleted
	}
	return false
}

// DeleteTodo deletes a todo together with any pending rewards it left behind.
func (s *Service) DeleteTodo(ctx context.Context, userID, todoID string) error {
	const op = "delete todo"
	if userID == "" || todoID == "" {
		return validationError(op, "userId and todoId are required")
	}
	if err := s.Store.DeleteTodo(ctx, userID, todoID); err != nil {
		return storageError(op, "failed to delete todo", err)
	}
	if _, err := s.discardPending(ctx, userID, todoID); err != nil {
		s.Logger.Error("failed to discard pending rewards of deleted todo", "user_id", userID, "todo_id", todoID, "error", err)
	}
	return nil
}

// approveTodo applies write and credits the todo's pending rewards in one balance change, so
// the money moves only if the todo does. An entry that vanishes between listing and crediting
// was approved or denied concurrently, so the list is read again.
func (s *Service) approveTodo(ctx context.Context, write storage.TodoWrite, source models.LogSource) (models.Money, error) {
	const attempts = 3
	todo := &write.Todo
	var err error
	for i := 0; i < attempts; i++ {
		var entries []models.PendingEntry
		entries, err = s.Store.ListPendingByReference(ctx, todo.UserID, todo.TodoID)
		if err != nil {
			return models.ZeroMoney, err
		}
		total := sumEntries(entries)
		if !total.IsPositive() {
			return models.ZeroMoney, s.writeTodo(ctx, write)
		}
		_, err = s.credit(ctx, todo.UserID, entries, models.BalanceLog{
			Reason: approvalReason(todo, source),
			Type:   models.LogEarn,
			Source: source,
		}, &write)
		if err == nil {
			return total, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return models.ZeroMoney, err
		}
	}
	return models.ZeroMoney, err
}

func (s *Service) writeTodo(ctx context.Context, write storage.TodoWrite) error {
	if write.Delete {
		return s.Store.DeleteTodo(ctx, write.Todo.UserID, write.Todo.TodoID)
	}
	return s.Store.UpdateTodo(ctx, &write.Todo, write.Expected)
}

func approvalReason(todo *models.Todo, source models.LogSource) string {
	if source == models.SourceAutoApprovedTodo {
		return fmt.Sprintf("Auto-approved todo: %s", todo.Text)
	}
	return fmt.Sprintf("Approved todo: %s", todo.Text)
}

// discardPending deletes every pending entry referencing todoID without touching the balance.
func (s *Service) discardPending(ctx context.Context, userID, todoID string) (int, error) {
	entries, err := s.Store.ListPendingByReference(ctx, userID, todoID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if err := s.Store.DeletePending(ctx, userID, e.PendingID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}
