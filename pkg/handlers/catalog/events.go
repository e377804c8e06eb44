package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

var (
	errTitleRequired  = errors.New("title must not be empty")
	errAmountRequired = errors.New("amount is required")
	errTypeRequired   = errors.New("type is required")
)

type eventRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Image       *string       `json:"image"`
	Amount      *models.Money `json:"amount"`
	Type        *string       `json:"type"`
}

func (req eventRequest) validate() (models.EventType, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return "", errTitleRequired
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return "", errNegativeMoney
	}
	if req.Type == nil {
		return "", nil
	}
	return models.ParseEventType(*req.Type)
}

// ListEvents returns the user's events.
func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListEvents(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to fetch events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respond.JSON(w, http.StatusOK, events)
}

// CreateEvent creates an event. Title, amount and type are required.
func (h *CatalogHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	switch {
	case req.Title == nil:
		respond.Message(w, http.StatusBadRequest, "Missing required fields", errTitleRequired)
		return
	case req.Amount == nil:
		respond.Message(w, http.StatusBadRequest, "Missing required fields", errAmountRequired)
		return
	case req.Type == nil:
		respond.Message(w, http.StatusBadRequest, "Missing required fields", errTypeRequired)
		return
	}
	eventType, err := req.validate()
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid event", err)
		return
	}

	event := &models.Event{
		EventID:     h.NewID(),
		UserID:      middleware.UserID(r.Context()),
		Title:       strings.TrimSpace(*req.Title),
		Description: req.Description,
		Image:       req.Image,
		Amount:      *req.Amount,
		Type:        eventType,
	}
	if err := h.Store.CreateEvent(r.Context(), event); err != nil {
		respond.Error(w, err, "Failed to add event")
		return
	}
	respond.JSON(w, http.StatusCreated, event)
}

// event loads an event by id and hides events of other users.
func (h *CatalogHandler) event(r *http.Request) (*models.Event, error) {
	eventID, err := respond.PathParam(r, "eventId")
	if err != nil {
		return nil, err
	}
	event, err := h.Store.GetEvent(r.Context(), eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != middleware.UserID(r.Context()) {
		return nil, storage.ErrNotFound
	}
	return event, nil
}

// GetEvent returns one event.
func (h *CatalogHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.event(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch event")
		return
	}
	respond.JSON(w, http.StatusOK, event)
}

// UpdateEvent changes the fields present in the request.
func (h *CatalogHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	eventType, err := req.validate()
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid event", err)
		return
	}

	event, err := h.event(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch event")
		return
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Image != nil {
		event.Image = req.Image
	}
	if req.Amount != nil {
		event.Amount = *req.Amount
	}
	if eventType != "" {
		event.Type = eventType
	}
	if err := h.Store.UpdateEvent(r.Context(), event); err != nil {
		respond.Error(w, err, "Failed to update event")
		return
	}
	respond.JSON(w, http.StatusOK, event)
}

// DeleteEvent deletes an event.
func (h *CatalogHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.event(r)
	if err != nil {
		respond.Error(w, err, "Failed to fetch event")
		return
	}
	if err := h.Store.DeleteEvent(r.Context(), event.UserID, event.EventID); err != nil {
		respond.Error(w, err, "Failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
