// Package rewards implements the reward reconciler: the todo lifecycle, the pending reward
// ledger, audited balance changes and the scheduled penalty, auto-approval and reset passes.
package rewards

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/google/uuid"
)

// DefaultScheduleLease is how long a running scheduled pass keeps its claim. It matches the
// longest Lambda timeout, so a crashed worker's claim can be taken over once it expires.
const DefaultScheduleLease = 15 * time.Minute

// Service orchestrates every balance-affecting operation.
type Service struct {
	Store         storage.LedgerStore
	Logger        *slog.Logger
	Now           func() time.Time
	NewID         func() string
	ScheduleLease time.Duration

	// OnBalanceChange, if set, is called after every committed balance change.
	OnBalanceChange func(ctx context.Context, entry *models.BalanceLog)
}

// NewService creates a Service backed by store.
func NewService(store storage.LedgerStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Store:         store,
		Logger:        logger,
		Now:           func() time.Time { return time.Now().UTC() },
		NewID:         func() string { return uuid.New().String() },
		ScheduleLease: DefaultScheduleLease,
	}
}

// settingsFor returns the user's settings. Users without an account get the defaults,
// which have both the award and the fine disabled.
func (s *Service) settingsFor(ctx context.Context, userID string) (models.Settings, error) {
	account, err := s.Store.GetAccount(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return account.Settings, nil
}

// credit applies +total to the user's balance, consuming entries. Entries beyond what one
// storage write can hold are credited in chunks, each with its own log entry. todo, if set, is
// written together with the last chunk.
func (s *Service) credit(ctx context.Context, userID string, entries []models.PendingEntry, logTemplate models.BalanceLog, todo *storage.TodoWrite) (*models.BalanceLog, error) {
	var last *models.BalanceLog
	for start := 0; start < len(entries); start += storage.MaxConsumePerChange {
		end := min(start+storage.MaxConsumePerChange, len(entries))
		chunk := entries[start:end]
		amount := sumEntries(chunk)

		entry := logTemplate
		entry.LogID = s.NewID()
		entry.Timestamp = s.Now()
		change := storage.BalanceChange{
			Apply:   func(before models.Money) models.Money { return before.Plus(amount) },
			Log:     entry,
			Consume: chunk,
		}
		if end == len(entries) {
			change.Todo = todo
		}
		logEntry, err := s.Store.ApplyBalanceChange(ctx, userID, change)
		if err != nil {
			return last, err
		}
		s.changed(ctx, logEntry)
		last = logEntry
	}
	return last, nil
}

func (s *Service) changed(ctx context.Context, entry *models.BalanceLog) {
	if s.OnBalanceChange != nil && entry != nil {
		s.OnBalanceChange(ctx, entry)
	}
}

func sumEntries(entries []models.PendingEntry) models.Money {
	total := models.ZeroMoney
	for _, e := range entries {
		total = total.Plus(e.Amount)
	}
	return total
}
