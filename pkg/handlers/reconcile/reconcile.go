package reconcile

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler"
	"github.com/oapi-codegen/runtime"
)

// Service is the part of the rewards service the penalty, auto-approve and reset routes use.
type Service interface {
	ApplyPenalty(ctx context.Context, userID string, penaltyAmount *models.Money) (*rewards.PenaltyResult, error)
	AutoApprove(ctx context.Context, resetType string) (*rewards.AutoApproveResult, error)
	Reset(ctx context.Context, resetType string) (*rewards.ResetResult, error)
	PreviewReset(ctx context.Context, resetType string) ([]models.Todo, error)
}

// CronRunner evaluates the reset trigger. *scheduler.Scheduler implements it.
type CronRunner interface {
	RunDue(ctx context.Context, now time.Time) (*scheduler.CronResult, error)
}

var _ CronRunner = (*scheduler.Scheduler)(nil)

// ReconcileHandler holds the dependencies for the scheduled-maintenance routes.
type ReconcileHandler struct {
	Service Service
	Cron    CronRunner
	Now     func() time.Time
}

// NewReconcileHandler creates a new ReconcileHandler. cron may be nil, in which case the cron
// route is not served.
func NewReconcileHandler(service Service, cron CronRunner) *ReconcileHandler {
	return &ReconcileHandler{Service: service, Cron: cron, Now: time.Now}
}

type penaltyRequest struct {
	PenaltyAmount *models.Money `json:"penaltyAmount"`
}

type resetTypeRequest struct {
	ResetType string `json:"resetType"`
}

// PreviewResponse lists the todos a reset would touch.
type PreviewResponse struct {
	ResetType string        `json:"resetType"`
	Count     int           `json:"count"`
	Todos     []models.Todo `json:"todos"`
}

// ApplyPenalty fines the user for uncompleted daily todos.
func (h *ReconcileHandler) ApplyPenalty(w http.ResponseWriter, r *http.Request) {
	var req penaltyRequest
	if err := respond.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.ApplyPenalty(r.Context(), middleware.UserID(r.Context()), req.PenaltyAmount)
	if err != nil {
		respond.Error(w, err, "Failed to apply penalty")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// AutoApprove approves or discards the pending rewards of completed todos of a recurrence class.
func (h *ReconcileHandler) AutoApprove(w http.ResponseWriter, r *http.Request) {
	var req resetTypeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.AutoApprove(r.Context(), req.ResetType)
	if err != nil {
		respond.Error(w, err, "Failed to auto-approve todos")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// Reset returns the todos of a recurrence class to not-completed.
func (h *ReconcileHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetTypeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Service.Reset(r.Context(), req.ResetType)
	if err != nil {
		respond.Error(w, err, "Failed to reset todos")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// PreviewReset lists what a reset of the resetType query parameter would touch.
func (h *ReconcileHandler) PreviewReset(w http.ResponseWriter, r *http.Request) {
	var resetType string
	if err := runtime.BindQueryParameter("form", true, true, "resetType", r.URL.Query(), &resetType); err != nil {
		respond.Message(w, http.StatusBadRequest, "valid resetType is required (daily, weekly, monthly)", err)
		return
	}

	todos, err := h.Service.PreviewReset(r.Context(), resetType)
	if err != nil {
		respond.Error(w, err, "Failed to preview reset")
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	respond.JSON(w, http.StatusOK, PreviewResponse{ResetType: resetType, Count: len(todos), Todos: todos})
}

// RunCron runs whatever scheduled passes are due now.
func (h *ReconcileHandler) RunCron(w http.ResponseWriter, r *http.Request) {
	result, err := h.Cron.RunDue(r.Context(), h.Now())
	if err != nil {
		respond.Message(w, http.StatusInternalServerError, "Failed to perform scheduled todo reset", err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
