package accounts

import (
	"context"
	"net/http"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
)

// Service is the part of the rewards service the account and settings routes use.
type Service interface {
	CreateAccount(ctx context.Context, userID, username string) (*models.Account, error)
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID string, update rewards.SettingsUpdate) (*models.Settings, error)
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Service Service
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(service Service) *AccountsHandler {
	return &AccountsHandler{Service: service}
}

type createAccountRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// CreateAccount registers a user with default settings and a zero balance.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	account, err := h.Service.CreateAccount(r.Context(), req.UserID, req.Username)
	if err != nil {
		respond.Error(w, err, "Failed to create account")
		return
	}
	respond.JSON(w, http.StatusCreated, account)
}

// GetSettings returns the user's reward settings.
func (h *AccountsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetSettings(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to fetch settings")
		return
	}
	respond.JSON(w, http.StatusOK, settings)
}

// UpdateSettings applies a partial settings change.
func (h *AccountsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update rewards.SettingsUpdate
	if err := respond.Decode(r, &update); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.Service.UpdateSettings(r.Context(), middleware.UserID(r.Context()), update)
	if err != nil {
		respond.Error(w, err, "Failed to update settings")
		return
	}
	respond.JSON(w, http.StatusOK, settings)
}
