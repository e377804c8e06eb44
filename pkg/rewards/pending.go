package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// CreatePendingInput describes a reward awaiting approval. Type defaults to todo.
type CreatePendingInput struct {
	UserID      string       `json:"userId"`
	Amount      models.Money `json:"amount"`
	Reason      string       `json:"reason"`
	Type        string       `json:"type"`
	ReferenceID string       `json:"referenceId"`
}

// PendingSummary lists a user's pending rewards and their total.
type PendingSummary struct {
	Entries []models.PendingEntry `json:"entries"`
	Total   models.Money          `json:"total"`
}

// ApprovalResult reports the outcome of an approval.
type ApprovalResult struct {
	Message  string       `json:"message"`
	Amount   models.Money `json:"amount"`
	Approved int          `json:"approved"`
	Balance  models.Money `json:"balance"`
}

// CreatePending records a pending reward. The ledger does not deduplicate; callers create one entry per event.
func (s *Service) CreatePending(ctx context.Context, in CreatePendingInput) (*models.PendingEntry, error) {
	const op = "create pending"
	reason := strings.TrimSpace(in.Reason)
	if in.UserID == "" || reason == "" || in.ReferenceID == "" {
		return nil, validationError(op, "userId, amount, reason, and referenceId are required")
	}
	if !in.Amount.IsPositive() {
		return nil, validationError(op, "amount must be positive")
	}
	pendingType := models.PendingFromTodo
	if in.Type != "" {
		t, err := models.ParsePendingType(in.Type)
		if err != nil {
			return nil, validationError(op, "%v", err)
		}
		pendingType = t
	}

	entry := &models.PendingEntry{
		PendingID:   s.NewID(),
		UserID:      in.UserID,
		Amount:      in.Amount,
		Reason:      reason,
		Type:        pendingType,
		ReferenceID: in.ReferenceID,
		CreatedAt:   s.Now(),
	}
	if err := s.Store.CreatePending(ctx, entry); err != nil {
		return nil, storageError(op, "failed to create pending money", err)
	}
	return entry, nil
}

// ListPending returns the user's pending rewards, oldest first.
func (s *Service) ListPending(ctx context.Context, userID string) (*PendingSummary, error) {
	const op = "list pending"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	entries, err := s.Store.ListPending(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch pending money", err)
	}
	if entries == nil {
		entries = []models.PendingEntry{}
	}
	return &PendingSummary{Entries: entries, Total: sumEntries(entries)}, nil
}

// ApprovePending moves one pending reward into the balance with a single log entry.
// A todo reward also moves its todo from pending to approved.
func (s *Service) ApprovePending(ctx context.Context, userID, pendingID string) (*ApprovalResult, error) {
	const op = "approve pending"
	if userID == "" || pendingID == "" {
		return nil, validationError(op, "userId and pendingId are required")
	}
	entry, err := s.Store.GetPending(ctx, userID, pendingID)
	if err != nil {
		return nil, storageError(op, "pending money not found", err)
	}

	logEntry, err := s.credit(ctx, userID, []models.PendingEntry{*entry}, models.BalanceLog{
		Reason: entry.Reason,
		Note:   "Approved pending money",
		Type:   models.LogEarn,
		Source: models.SourcePendingApproval,
	}, nil)
	if err != nil {
		return nil, storageError(op, "failed to approve pending money", err)
	}
	s.markTodosApproved(ctx, userID, []models.PendingEntry{*entry})

	return &ApprovalResult{
		Message:  fmt.Sprintf("Approved pending money of $%s", entry.Amount),
		Amount:   entry.Amount,
		Approved: 1,
		Balance:  logEntry.BalanceAfter,
	}, nil
}

// ApproveAll approves every pending reward of the user with one balance update and one log entry.
func (s *Service) ApproveAll(ctx context.Context, userID string) (*ApprovalResult, error) {
	const op = "approve all pending"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	entries, err := s.Store.ListPending(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch pending money", err)
	}

	total := sumEntries(entries)
	result := &ApprovalResult{Amount: total, Approved: len(entries)}
	if len(entries) == 0 {
		balance, err := s.Store.GetBalance(ctx, userID)
		if err != nil {
			return nil, storageError(op, "failed to fetch balance", err)
		}
		result.Balance = balance.Balance
		result.Message = fmt.Sprintf("Approved all pending money totaling $%s", total)
		return result, nil
	}

	logEntry, err := s.credit(ctx, userID, entries, models.BalanceLog{
		Reason: fmt.Sprintf("Approved %d pending item(s)", len(entries)),
		Note:   "Approved all pending money",
		Type:   models.LogEarn,
		Source: models.SourceApproveAll,
	}, nil)
	if err != nil {
		return nil, storageError(op, "failed to approve pending money", err)
	}
	s.markTodosApproved(ctx, userID, entries)

	result.Balance = logEntry.BalanceAfter
	result.Message = fmt.Sprintf("Approved all pending money totaling $%s", total)
	return result, nil
}

// DenyPending deletes a pending reward without touching the balance.
func (s *Service) DenyPending(ctx context.Context, userID, pendingID string) error {
	const op = "deny pending"
	if userID == "" || pendingID == "" {
		return validationError(op, "userId and pendingId are required")
	}
	if err := s.Store.DeletePending(ctx, userID, pendingID); err != nil {
		return storageError(op, "failed to delete pending money", err)
	}
	return nil
}

// markTodosApproved moves the todos behind approved todo rewards from pending to approved.
// Failures are logged; the money has already been credited.
func (s *Service) markTodosApproved(ctx context.Context, userID string, entries []models.PendingEntry) {
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Type != models.PendingFromTodo || seen[e.ReferenceID] {
			continue
		}
		seen[e.ReferenceID] = true

		todo, err := s.Store.GetTodo(ctx, userID, e.ReferenceID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			s.Logger.Error("failed to load approved todo", "user_id", userID, "todo_id", e.ReferenceID, "error", err)
			continue
		}
		if todo.Completed != models.PendingApproval {
			continue
		}
		todo.Completed = models.Approved
		if err := s.Store.UpdateTodo(ctx, todo, models.PendingApproval); err != nil && !errors.Is(err, storage.ErrConflict) {
			s.Logger.Error("failed to mark todo approved", "user_id", userID, "todo_id", todo.TodoID, "error", err)
		}
	}
}
