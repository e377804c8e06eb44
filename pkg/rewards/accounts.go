package rewards

import (
	"context"
	"strings"

	"github.com/chris/allowance-ledger/pkg/models"
)

// SettingsUpdate is a partial settings change; nil fields keep their current value.
type SettingsUpdate struct {
	ResetTime             *string       `json:"resetTime,omitempty"`
	CompleteAward         *models.Money `json:"completeAward,omitempty"`
	CompleteAwardEnabled  *bool         `json:"completeAwardEnabled,omitempty"`
	UncompleteFine        *models.Money `json:"uncompleteFine,omitempty"`
	UncompleteFineEnabled *bool         `json:"uncompleteFineEnabled,omitempty"`
}

// CreateAccount registers a user with the default settings and a zero balance.
func (s *Service) CreateAccount(ctx context.Context, userID, username string) (*models.Account, error) {
	const op = "create account"
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}

	account := &models.Account{
		UserID:    userID,
		Username:  strings.TrimSpace(username),
		Settings:  models.DefaultSettings(),
		CreatedAt: s.Now(),
	}
	if err := s.Store.CreateAccount(ctx, account); err != nil {
		return nil, storageError(op, "failed to create account", err)
	}
	return account, nil
}

// GetSettings returns the user's reward settings.
func (s *Service) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	const op = "get settings"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	account, err := s.Store.GetAccount(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch settings", err)
	}
	return &account.Settings, nil
}

// UpdateSettings merges update into the stored settings. Amounts are clamped at zero.
func (s *Service) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (*models.Settings, error) {
	const op = "update settings"
	if userID == "" {
		return nil, validationError(op, "userId is required")
	}
	account, err := s.Store.GetAccount(ctx, userID)
	if err != nil {
		return nil, storageError(op, "failed to fetch settings", err)
	}

	settings := account.Settings
	if update.ResetTime != nil {
		if _, err := ParseClock(*update.ResetTime); err != nil {
			return nil, validationError(op, "resetTime must be HH:MM, got %q", *update.ResetTime)
		}
		settings.ResetTime = *update.ResetTime
	}
	if update.CompleteAward != nil {
		settings.CompleteAward = update.CompleteAward.FloorZero()
	}
	if update.CompleteAwardEnabled != nil {
		settings.CompleteAwardEnabled = *update.CompleteAwardEnabled
	}
	if update.UncompleteFine != nil {
		settings.UncompleteFine = update.UncompleteFine.FloorZero()
	}
	if update.UncompleteFineEnabled != nil {
		settings.UncompleteFineEnabled = *update.UncompleteFineEnabled
	}

	if err := s.Store.UpdateSettings(ctx, userID, settings); err != nil {
		return nil, storageError(op, "failed to update settings", err)
	}
	return &settings, nil
}
