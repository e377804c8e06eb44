package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// PenaltyResult reports the outcome of ApplyPenalty.
type PenaltyResult struct {
	Message          string        `json:"message"`
	PenaltyApplied   bool          `json:"penaltyApplied"`
	UncompletedCount int           `json:"uncompletedCount"`
	PenaltyAmount    models.Money  `json:"penaltyAmount"`
	PreviousBalance  *models.Money `json:"previousBalance,omitempty"`
	NewBalance       *models.Money `json:"newBalance,omitempty"`
}

// PenaltySweepResult aggregates ApplyPenalties over every account.
type PenaltySweepResult struct {
	Checked   int          `json:"checked"`
	Penalized int          `json:"penalized"`
	Failed    int          `json:"failed"`
	Total     models.Money `json:"total"`
}

// AutoApproveResult reports the outcome of AutoApprove.
type AutoApproveResult struct {
	Message       string        `json:"message"`
	Repeat        models.Repeat `json:"repeat"`
	ApprovedCount int           `json:"approvedCount"`
	TotalAmount   models.Money  `json:"totalAmount"`
}

// ResetResult reports the outcome of Reset.
type ResetResult struct {
	Message    string        `json:"message"`
	Repeat     models.Repeat `json:"repeat"`
	ResetCount int           `json:"resetCount"`
}

// PassResult reports one scheduled pass for a recurrence class and period.
type PassResult struct {
	Repeat       models.Repeat        `json:"repeat"`
	Period       string               `json:"period"`
	Claimed      bool                 `json:"claimed"`
	Penalties    *PenaltySweepResult  `json:"penalties,omitempty"`
	AutoApproved []*AutoApproveResult `json:"autoApproved,omitempty"`
	Reset        *ResetResult         `json:"reset,omitempty"`
}

// ApplyPenalty deducts the uncomplete fine from the user's balance when at least one daily todo
// is still not completed and fines are enabled. The balance never drops below zero through a
// penalty. A nil penaltyAmount uses the fine from the user's settings.
func (s *Service) ApplyPenalty(ctx context.Context, userID string, penaltyAmount *models.Money) (*PenaltyResult, error) {
	const op = "apply penalty"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	if penaltyAmount != nil && penaltyAmount.IsNegative() {
		return nil, validationError(op, "penaltyAmount must not be negative")
	}

	todos, err := s.Store.ListTodos(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch todos", err)
	}
	uncompleted := 0
	for _, t := range todos {
		if t.Repeat == models.Daily && t.Completed == models.NotCompleted {
			uncompleted++
		}
	}
	if uncompleted == 0 {
		return &PenaltyResult{
			Message:       "No penalty applied - all daily todos completed",
			PenaltyAmount: models.ZeroMoney,
		}, nil
	}

	settings, err := s.settingsFor(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch settings", err)
	}
	if !settings.UncompleteFineEnabled {
		return &PenaltyResult{
			Message:          "No penalty applied - incomplete fines are disabled",
			UncompletedCount: uncompleted,
			PenaltyAmount:    models.ZeroMoney,
		}, nil
	}

	penalty := settings.UncompleteFine
	if penaltyAmount != nil {
		penalty = models.NewMoney(penaltyAmount.Decimal)
	}
	if !penalty.IsPositive() {
		return &PenaltyResult{
			Message:          "No penalty applied - fine amount is zero",
			UncompletedCount: uncompleted,
			PenaltyAmount:    models.ZeroMoney,
		}, nil
	}

	noun := pluralTodo(uncompleted)
	logEntry, err := s.Store.ApplyBalanceChange(ctx, userID, storage.BalanceChange{
		Apply: func(before models.Money) models.Money { return before.Minus(penalty).FloorZero() },
		Log: models.BalanceLog{
			LogID:     s.NewID(),
			Reason:    fmt.Sprintf("Penalty for %d uncompleted daily %s", uncompleted, noun),
			Type:      models.LogLose,
			Source:    models.SourcePenalty,
			Timestamp: s.Now(),
		},
	})
	if err != nil {
		return nil, storageError(op, "failed to apply penalty", err)
	}
	s.changed(ctx, logEntry)

	s.Logger.Info("applied penalty", "user_id", userID, "uncompleted", uncompleted,
		"penalty", penalty.String(), "balance", logEntry.BalanceAfter.String())

	return &PenaltyResult{
		Message:          fmt.Sprintf("Penalty applied: -$%s for %d uncompleted daily %s", penalty, uncompleted, noun),
		PenaltyApplied:   true,
		UncompletedCount: uncompleted,
		PenaltyAmount:    penalty,
		PreviousBalance:  &logEntry.BalanceBefore,
		NewBalance:       &logEntry.BalanceAfter,
	}, nil
}

func pluralTodo(n int) string {
	if n == 1 {
		return "todo"
	}
	return "todos"
}

// ApplyPenalties runs ApplyPenalty with the configured fine for every account that has fines enabled.
// A failure for one account is logged and does not stop the sweep.
func (s *Service) ApplyPenalties(ctx context.Context) (*PenaltySweepResult, error) {
	accounts, err := s.Store.ListAccounts(ctx)
	if err != nil {
		return nil, storageError("apply penalties", "failed to list accounts", err)
	}

	result := &PenaltySweepResult{Total: models.ZeroMoney}
	for _, account := range accounts {
		if !account.Settings.UncompleteFineEnabled {
			continue
		}
		result.Checked++
		res, err := s.ApplyPenalty(ctx, account.UserID, nil)
		if err != nil {
			result.Failed++
			s.Logger.Error("failed to apply penalty", "user_id", account.UserID, "error", err)
			continue
		}
		if res.PenaltyApplied {
			result.Penalized++
			result.Total = result.Total.Plus(res.PreviousBalance.Minus(*res.NewBalance))
		}
	}
	return result, nil
}

// AutoApprove approves every pending todo of the given recurrence class across all users.
func (s *Service) AutoApprove(ctx context.Context, resetType string) (*AutoApproveResult, error) {
	repeat, err := models.ParseResetType(resetType)
	if err != nil {
		return nil, validationError("auto-approve", "%v", err)
	}
	return s.autoApprove(ctx, repeat)
}

// autoApprove also accepts once, which only the daily pass uses. For each pending todo the
// pending rewards are credited when the owner has the complete award enabled and discarded
// otherwise. Once todos are then deleted; recurring todos become approved.
func (s *Service) autoApprove(ctx context.Context, repeat models.Repeat) (*AutoApproveResult, error) {
	todos, err := s.Store.ListTodosByState(ctx, repeat, models.PendingApproval)
	if err != nil {
		return nil, storageError("auto-approve", "failed to fetch pending todos", err)
	}

	result := &AutoApproveResult{Repeat: repeat, TotalAmount: models.ZeroMoney}
	settingsCache := make(map[string]models.Settings)
	for i := range todos {
		todo := &todos[i]
		credited, err := s.autoApproveTodo(ctx, todo, settingsCache)
		if err != nil {
			s.Logger.Error("failed to auto-approve todo", "user_id", todo.UserID, "todo_id", todo.TodoID, "repeat", repeat, "error", err)
			continue
		}
		result.ApprovedCount++
		result.TotalAmount = result.TotalAmount.Plus(credited)
	}

	result.Message = fmt.Sprintf("Successfully auto-approved %d %s todos, total coins awarded: %s", result.ApprovedCount, repeat, result.TotalAmount)
	s.Logger.Info("auto-approve finished", "repeat", repeat, "approved", result.ApprovedCount, "total", result.TotalAmount.String())
	return result, nil
}

func (s *Service) autoApproveTodo(ctx context.Context, todo *models.Todo, cache map[string]models.Settings) (models.Money, error) {
	settings, ok := cache[todo.UserID]
	if !ok {
		var err error
		if settings, err = s.settingsFor(ctx, todo.UserID); err != nil {
			return models.ZeroMoney, fmt.Errorf("failed to fetch settings: %w", err)
		}
		cache[todo.UserID] = settings
	}

	write := storage.TodoWrite{Todo: *todo, Expected: models.PendingApproval, Delete: todo.Repeat == models.Once}
	if !write.Delete {
		now := s.Now()
		write.Todo.Completed = models.Approved
		write.Todo.AutoApprovedAt = &now
	}

	if settings.CompleteAwardEnabled {
		credited, err := s.approveTodo(ctx, write, models.SourceAutoApprovedTodo)
		if err != nil {
			return models.ZeroMoney, fmt.Errorf("failed to approve todo: %w", err)
		}
		return credited, nil
	}

	// Without the award the todo is closed first; a pending entry left behind is discarded by the next reset.
	if err := s.writeTodo(ctx, write); err != nil {
		return models.ZeroMoney, fmt.Errorf("failed to close todo: %w", err)
	}
	if _, err := s.discardPending(ctx, todo.UserID, todo.TodoID); err != nil {
		return models.ZeroMoney, fmt.Errorf("failed to discard pending rewards: %w", err)
	}
	return models.ZeroMoney, nil
}

// Reset returns every approved or pending todo of the recurrence class to not completed.
// Pending rewards of reset todos are discarded.
func (s *Service) Reset(ctx context.Context, resetType string) (*ResetResult, error) {
	repeat, err := models.ParseResetType(resetType)
	if err != nil {
		return nil, validationError("reset", "%v", err)
	}

	result := &ResetResult{Repeat: repeat}
	for _, state := range []models.Completion{models.Approved, models.PendingApproval} {
		todos, err := s.Store.ListTodosByState(ctx, repeat, state)
		if err != nil {
			return nil, storageError("reset", "failed to fetch todos for reset", err)
		}
		for i := range todos {
			todo := todos[i]
			if err := s.resetTodo(ctx, &todo); err != nil {
				s.Logger.Error("failed to reset todo", "user_id", todo.UserID, "todo_id", todo.TodoID, "repeat", repeat, "error", err)
				continue
			}
			result.ResetCount++
		}
	}

	result.Message = fmt.Sprintf("Successfully reset %d %s todos", result.ResetCount, repeat)
	s.Logger.Info("reset finished", "repeat", repeat, "reset", result.ResetCount)
	return result, nil
}

func (s *Service) resetTodo(ctx context.Context, todo *models.Todo) error {
	from := todo.Completed
	now := s.Now()
	todo.Completed = models.NotCompleted
	todo.LastResetAt = &now
	if err := s.Store.UpdateTodo(ctx, todo, from); err != nil {
		return err
	}
	if _, err := s.discardPending(ctx, todo.UserID, todo.TodoID); err != nil {
		return fmt.Errorf("todo reset but pending rewards not discarded: %w", err)
	}
	return nil
}

// PreviewReset lists the todos Reset would touch without changing them.
func (s *Service) PreviewReset(ctx context.Context, resetType string) ([]models.Todo, error) {
	repeat, err := models.ParseResetType(resetType)
	if err != nil {
		return nil, validationError("preview reset", "%v", err)
	}
	todos := []models.Todo{}
	for _, state := range []models.Completion{models.Approved, models.PendingApproval} {
		found, err := s.Store.ListTodosByState(ctx, repeat, state)
		if err != nil {
			return nil, storageError("preview reset", "failed to fetch todos for reset", err)
		}
		todos = append(todos, found...)
	}
	return todos, nil
}

// RunScheduledPass claims (repeat, period) and runs the penalty (daily only), auto-approval and
// reset steps in that order. The daily pass also auto-approves once todos. A period whose pass is
// done, or is held by another running pass, returns Claimed=false. A pass that fails is recorded
// as failed so a retry runs it again; penalties already applied for the period are not repeated.
func (s *Service) RunScheduledPass(ctx context.Context, repeat models.Repeat, period string) (*PassResult, error) {
	const op = "scheduled pass"
	if _, err := models.ParseResetType(string(repeat)); err != nil {
		return nil, validationError(op, "%v", err)
	}
	if period == "" {
		return nil, validationError(op, "period is required")
	}

	result := &PassResult{Repeat: repeat, Period: period}
	now := s.Now()
	run := models.ScheduleRun{
		Repeat:       repeat,
		Period:       period,
		Status:       models.RunRunning,
		ClaimedAt:    now,
		LeaseExpires: now.Add(s.lease()).Unix(),
		UpdatedAt:    now,
	}

	last, err := s.Store.GetScheduleRun(ctx, repeat)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, storageError(op, "failed to read scheduled pass", err)
	case !last.Claimable(period, now):
		s.Logger.Info("scheduled pass already claimed", "repeat", repeat, "period", period, "status", last.Status)
		return result, nil
	case last.Period == period:
		run.PenaltiesApplied = last.PenaltiesApplied
	}

	err = s.Store.ClaimScheduleRun(ctx, run)
	if errors.Is(err, storage.ErrAlreadyClaimed) {
		s.Logger.Info("scheduled pass already claimed", "repeat", repeat, "period", period)
		return result, nil
	}
	if err != nil {
		return nil, storageError(op, "failed to claim scheduled pass", err)
	}
	result.Claimed = true

	if err := s.runPass(ctx, &run, result); err != nil {
		run.Status = models.RunFailed
		run.UpdatedAt = s.Now()
		if saveErr := s.Store.SaveScheduleRun(ctx, run); saveErr != nil {
			s.Logger.Error("failed to record failed scheduled pass", "repeat", repeat, "period", period, "error", saveErr)
		}
		return result, err
	}

	run.Status = models.RunDone
	run.UpdatedAt = s.Now()
	if err := s.Store.SaveScheduleRun(ctx, run); err != nil {
		return result, storageError(op, "failed to record finished scheduled pass", err)
	}
	s.Logger.Info("scheduled pass finished", "repeat", repeat, "period", period)
	return result, nil
}

func (s *Service) runPass(ctx context.Context, run *models.ScheduleRun, result *PassResult) error {
	if run.Repeat == models.Daily && !run.PenaltiesApplied {
		penalties, err := s.ApplyPenalties(ctx)
		if err != nil {
			return err
		}
		result.Penalties = penalties

		run.PenaltiesApplied = true
		run.UpdatedAt = s.Now()
		if err := s.Store.SaveScheduleRun(ctx, *run); err != nil {
			return storageError("scheduled pass", "failed to record applied penalties", err)
		}
	}

	classes := []models.Repeat{run.Repeat}
	if run.Repeat == models.Daily {
		classes = append(classes, models.Once)
	}
	for _, class := range classes {
		approved, err := s.autoApprove(ctx, class)
		if err != nil {
			return err
		}
		result.AutoApproved = append(result.AutoApproved, approved)
	}

	reset, err := s.Reset(ctx, string(run.Repeat))
	if err != nil {
		return err
	}
	result.Reset = reset
	return nil
}

func (s *Service) lease() time.Duration {
	if s.ScheduleLease > 0 {
		return s.ScheduleLease
	}
	return DefaultScheduleLease
}
