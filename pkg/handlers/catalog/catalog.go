// Package catalog serves the behaviors a parent rewards or fines, the activities under them,
// and one-off events.
package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/google/uuid"
)

var (
	errNameRequired  = errors.New("name must not be empty")
	errNegativeMoney = errors.New("money must not be negative")
)

// CatalogHandler holds the dependencies for behavior, activity and event handlers.
type CatalogHandler struct {
	Store storage.CatalogStore
	NewID func() string
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store storage.CatalogStore) *CatalogHandler {
	return &CatalogHandler{Store: store, NewID: uuid.NewString}
}

type behaviorRequest struct {
	BehaviorName *string `json:"behaviorName"`
	BannerImage  *string `json:"bannerImage"`
	ThumbImage   *string `json:"thumbImage"`
}

type activityRequest struct {
	ActivityName *string       `json:"activityName"`
	Money        *models.Money `json:"money"`
	Positive     *bool         `json:"positive"`
}

func (req activityRequest) validate() error {
	if req.ActivityName != nil && strings.TrimSpace(*req.ActivityName) == "" {
		return errNameRequired
	}
	if req.Money != nil && req.Money.IsNegative() {
		return errNegativeMoney
	}
	return nil
}

// ListBehaviors returns the user's behaviors.
func (h *CatalogHandler) ListBehaviors(w http.ResponseWriter, r *http.Request) {
	behaviors, err := h.Store.ListBehaviors(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to fetch behaviors")
		return
	}
	if behaviors == nil {
		behaviors = []models.Behavior{}
	}
	respond.JSON(w, http.StatusOK, behaviors)
}

// CreateBehavior creates a behavior.
func (h *CatalogHandler) CreateBehavior(w http.ResponseWriter, r *http.Request) {
	var req behaviorRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BehaviorName == nil || strings.TrimSpace(*req.BehaviorName) == "" {
		respond.Message(w, http.StatusBadRequest, "behaviorName is required", errNameRequired)
		return
	}

	behavior := &models.Behavior{
		BehaviorID:   h.NewID(),
		UserID:       middleware.UserID(r.Context()),
		BehaviorName: strings.TrimSpace(*req.BehaviorName),
		BannerImage:  req.BannerImage,
		ThumbImage:   req.ThumbImage,
	}
	if err := h.Store.CreateBehavior(r.Context(), behavior); err != nil {
		respond.Error(w, err, "Failed to create behavior")
		return
	}
	respond.JSON(w, http.StatusCreated, behavior)
}

// GetBehavior returns one behavior.
func (h *CatalogHandler) GetBehavior(w http.ResponseWriter, r *http.Request) {
	behaviorID, err := respond.PathParam(r, "behaviorId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Behavior ID is required", err)
		return
	}
	behavior, err := h.Store.GetBehavior(r.Context(), middleware.UserID(r.Context()), behaviorID)
	if err != nil {
		respond.Error(w, err, "Failed to fetch behavior")
		return
	}
	respond.JSON(w, http.StatusOK, behavior)
}

// UpdateBehavior changes the fields present in the request.
func (h *CatalogHandler) UpdateBehavior(w http.ResponseWriter, r *http.Request) {
	behaviorID, err := respond.PathParam(r, "behaviorId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Behavior ID is required", err)
		return
	}
	var req behaviorRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BehaviorName != nil && strings.TrimSpace(*req.BehaviorName) == "" {
		respond.Message(w, http.StatusBadRequest, "behaviorName must not be empty", errNameRequired)
		return
	}

	behavior, err := h.Store.GetBehavior(r.Context(), middleware.UserID(r.Context()), behaviorID)
	if err != nil {
		respond.Error(w, err, "Failed to fetch behavior")
		return
	}
	if req.BehaviorName != nil {
		behavior.BehaviorName = strings.TrimSpace(*req.BehaviorName)
	}
	if req.BannerImage != nil {
		behavior.BannerImage = req.BannerImage
	}
	if req.ThumbImage != nil {
		behavior.ThumbImage = req.ThumbImage
	}
	if err := h.Store.UpdateBehavior(r.Context(), behavior); err != nil {
		respond.Error(w, err, "Failed to update behavior")
		return
	}
	respond.JSON(w, http.StatusOK, behavior)
}

// DeleteBehavior deletes a behavior and its activities.
func (h *CatalogHandler) DeleteBehavior(w http.ResponseWriter, r *http.Request) {
	behaviorID, err := respond.PathParam(r, "behaviorId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Behavior ID is required", err)
		return
	}
	if err := h.Store.DeleteBehavior(r.Context(), middleware.UserID(r.Context()), behaviorID); err != nil {
		respond.Error(w, err, "Failed to delete behavior")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActivities returns the activities of a behavior.
func (h *CatalogHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	behaviorID, err := respond.PathParam(r, "behaviorId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Behavior ID is required", err)
		return
	}
	activities, err := h.Store.ListActivities(r.Context(), middleware.UserID(r.Context()), behaviorID)
	if err != nil {
		respond.Error(w, err, "Failed to fetch activities")
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	respond.JSON(w, http.StatusOK, activities)
}

// CreateActivity creates an activity under a behavior. Positive defaults to true.
func (h *CatalogHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	behaviorID, err := respond.PathParam(r, "behaviorId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Behavior ID is required", err)
		return
	}
	var req activityRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ActivityName == nil {
		respond.Message(w, http.StatusBadRequest, "activityName is required", errNameRequired)
		return
	}
	if err := req.validate(); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid activity", err)
		return
	}

	activity := &models.Activity{
		ActivityID:   h.NewID(),
		BehaviorID:   behaviorID,
		UserID:       middleware.UserID(r.Context()),
		ActivityName: strings.TrimSpace(*req.ActivityName),
		Positive:     true,
	}
	if req.Money != nil {
		activity.Money = *req.Money
	}
	if req.Positive != nil {
		activity.Positive = *req.Positive
	}
	if err := h.Store.CreateActivity(r.Context(), activity); err != nil {
		respond.Error(w, err, "Failed to create activity")
		return
	}
	respond.JSON(w, http.StatusCreated, activity)
}

// activity loads an activity by id and hides activities of other users.
func (h *CatalogHandler) activity(r *http.Request) (*models.Activity, error) {
	activityID, err := respond.PathParam(r, "activityId")
	if err != nil {
		return nil, err
	}
	activity, err := h.Store.GetActivity(r.Context(), activityID)
	if err != nil {
		return nil, err
	}
	if activity.UserID != middleware.UserID(r.Context()) {
		return nil, storage.ErrNotFound
	}
	return activity, nil
}

// GetActivity returns one activity.
func (h *CatalogHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.activity(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch activity")
		return
	}
	respond.JSON(w, http.StatusOK, activity)
}

// UpdateActivity changes the fields present in the request.
func (h *CatalogHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := req.validate(); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid activity", err)
		return
	}

	activity, err := h.activity(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch activity")
		return
	}
	if req.ActivityName != nil {
		activity.ActivityName = strings.TrimSpace(*req.ActivityName)
	}
	if req.Money != nil {
		activity.Money = *req.Money
	}
	if req.Positive != nil {
		activity.Positive = *req.Positive
	}
	if err := h.Store.UpdateActivity(r.Context(), activity); err != nil {
		respond.Error(w, err, "Failed to update activity")
		return
	}
	respond.JSON(w, http.StatusOK, activity)
}

// DeleteActivity deletes an activity.
func (h *CatalogHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.activity(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch activity")
		return
	}
	if err := h.Store.DeleteActivity(r.Context(), activity.UserID, activity.BehaviorID, activity.ActivityID); err != nil {
		respond.Error(w, err, "Failed to delete activity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
