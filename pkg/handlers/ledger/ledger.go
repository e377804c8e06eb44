package ledger

import (
	"context"
	"net/http"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/oapi-codegen/runtime"
)

// Service is the part of the rewards service the pending, balance and log routes use.
type Service interface {
	CreatePending(ctx context.Context, in rewards.CreatePendingInput) (*models.PendingEntry, error)
	ListPending(ctx context.Context, userID string) (*rewards.PendingSummary, error)
	ApprovePending(ctx context.Context, userID, pendingID string) (*rewards.ApprovalResult, error)
	ApproveAll(ctx context.Context, userID string) (*rewards.ApprovalResult, error)
	DenyPending(ctx context.Context, userID, pendingID string) error
	GetBalance(ctx context.Context, userID string) (models.Money, error)
	SetBalance(ctx context.Context, userID string, balance *models.Money, note string) (*models.BalanceLog, error)
	ListBalanceLogs(ctx context.Context, userID string, limit int) ([]models.BalanceLog, error)
}

// LedgerHandler holds the dependencies for pending reward and balance handlers.
type LedgerHandler struct {
	Service Service
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(service Service) *LedgerHandler {
	return &LedgerHandler{Service: service}
}

type createPendingRequest struct {
	Amount      models.Money `json:"amount"`
	Reason      string       `json:"reason"`
	Type        string       `json:"type"`
	ReferenceID string       `json:"referenceId"`
}

type setBalanceRequest struct {
	Balance *models.Money `json:"balance"`
	Note    string        `json:"note"`
}

// BalanceResponse is the body of the balance routes.
type BalanceResponse struct {
	UserID  string       `json:"userId"`
	Balance models.Money `json:"balance"`
}

// ListPending returns the user's pending rewards and their total.
func (h *LedgerHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.ListPending(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to fetch pending money")
		return
	}
	respond.JSON(w, http.StatusOK, summary)
}

// CreatePending records a reward awaiting approval.
func (h *LedgerHandler) CreatePending(w http.ResponseWriter, r *http.Request) {
	var req createPendingRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.Service.CreatePending(r.Context(), rewards.CreatePendingInput{
		UserID:      middleware.UserID(r.Context()),
		Amount:      req.Amount,
		Reason:      req.Reason,
		Type:        req.Type,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		respond.Error(w, err, "Failed to create pending money")
		return
	}
	respond.JSON(w, http.StatusCreated, entry)
}

// ApprovePending credits one pending reward.
func (h *LedgerHandler) ApprovePending(w http.ResponseWriter, r *http.Request) {
	pendingID, err := respond.PathParam(r, "pendingId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Pending ID is required", err)
		return
	}
	result, err := h.Service.ApprovePending(r.Context(), middleware.UserID(r.Context()), pendingID)
	if err != nil {
		respond.Error(w, err, "Failed to approve pending money")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// ApproveAll credits every pending reward of the user.
func (h *LedgerHandler) ApproveAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ApproveAll(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to approve pending money")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// DenyPending deletes a pending reward without crediting it.
func (h *LedgerHandler) DenyPending(w http.ResponseWriter, r *http.Request) {
	pendingID, err := respond.PathParam(r, "pendingId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Pending ID is required", err)
		return
	}
	if err := h.Service.DenyPending(r.Context(), middleware.UserID(r.Context()), pendingID); err != nil {
		respond.Error(w, err, "Failed to deny pending money")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance returns the user's balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	balance, err := h.Service.GetBalance(r.Context(), userID)
	if err != nil {
		respond.Error(w, err, "Failed to fetch balance")
		return
	}
	respond.JSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// SetBalance overwrites the balance and returns the log entry of the change.
func (h *LedgerHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req setBalanceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entry, err := h.Service.SetBalance(r.Context(), middleware.UserID(r.Context()), req.Balance, req.Note)
	if err != nil {
		respond.Error(w, err, "Failed to update balance")
		return
	}
	respond.JSON(w, http.StatusOK, entry)
}

// ListBalanceLogs returns the balance log, newest first. The optional limit query parameter caps it.
func (h *LedgerHandler) ListBalanceLogs(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid format for parameter limit", err)
		return
	}
	n := 0
	if limit != nil {
		if *limit < 0 {
			respond.Message(w, http.StatusBadRequest, "limit must not be negative", nil)
			return
		}
		n = *limit
	}

	logs, err := h.Service.ListBalanceLogs(r.Context(), middleware.UserID(r.Context()), n)
	if err != nil {
		respond.Error(w, err, "Failed to fetch logs")
		return
	}
	respond.JSON(w, http.StatusOK, logs)
}
