package rewards

import (
	"context"
	"strings"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// GetBalance returns the user's current balance, zero if it was never written.
func (s *Service) GetBalance(ctx context.Context, userID string) (models.Money, error) {
	const op = "get balance"
	if userID == "" {
		return models.ZeroMoney, validationError(op, "userId is required")
	}
	balance, err := s.Store.GetBalance(ctx, userID)
	if err != nil {
		return models.ZeroMoney, storageError(op, "failed to fetch balance", err)
	}
	return balance.Balance, nil
}

// SetBalance overwrites the balance with a manual value and logs the before and after amounts.
// A nil balance is a validation error.
func (s *Service) SetBalance(ctx context.Context, userID string, balance *models.Money, note string) (*models.BalanceLog, error) {
	const op = "set balance"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	if balance == nil {
		return nil, validationError(op, "balance must be a number")
	}
	target := models.NewMoney(balance.Decimal)

	logEntry, err := s.Store.ApplyBalanceChange(ctx, userID, storage.BalanceChange{
		Apply: func(models.Money) models.Money { return target },
		Log: models.BalanceLog{
			LogID:     s.NewID(),
			Note:      strings.TrimSpace(note),
			Type:      models.LogAdjust,
			Source:    models.SourceManualEdit,
			Timestamp: s.Now(),
		},
	})
	if err != nil {
		return nil, storageError(op, "failed to update balance", err)
	}
	s.changed(ctx, logEntry)
	return logEntry, nil
}

// ListBalanceLogs returns the user's balance log, most recent first. A limit <= 0 returns everything.
func (s *Service) ListBalanceLogs(ctx context.Context, userID string, limit int) ([]models.BalanceLog, error) {
	const op = "list balance logs"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	logs, err := s.Store.ListBalanceLogs(ctx, userID, limit)
	if err != nil {
		return nil, storageError(op, "failed to fetch logs", err)
	}
	if logs == nil {
		logs = []models.BalanceLog{}
	}
	return logs, nil
}
