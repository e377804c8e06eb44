package todos

import (
	"context"
	"net/http"

	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
)

// Service is the part of the rewards service the todo routes use.
type Service interface {
	CreateTodo(ctx context.Context, in rewards.CreateTodoInput) (*models.Todo, error)
	GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error)
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, in rewards.UpdateTodoInput) (*models.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID string) error
}

// TodosHandler holds the dependencies for todo handlers.
type TodosHandler struct {
	Service Service
}

// NewTodosHandler creates a new TodosHandler.
func NewTodosHandler(service Service) *TodosHandler {
	return &TodosHandler{Service: service}
}

type createTodoRequest struct {
	Text   string       `json:"text"`
	Money  models.Money `json:"money"`
	Repeat string       `json:"repeat"`
}

type updateTodoRequest struct {
	Text      *string            `json:"text"`
	Money     *models.Money      `json:"money"`
	Repeat    *string            `json:"repeat"`
	Completed *models.Completion `json:"completed"`
}

// ListTodos returns the user's todos.
func (h *TodosHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.Service.ListTodos(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respond.Error(w, err, "Failed to fetch todos")
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	respond.JSON(w, http.StatusOK, todos)
}

// CreateTodo creates a todo in the not-completed state.
func (h *TodosHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	todo, err := h.Service.CreateTodo(r.Context(), rewards.CreateTodoInput{
		UserID: middleware.UserID(r.Context()),
		Text:   req.Text,
		Money:  req.Money,
		Repeat: req.Repeat,
	})
	if err != nil {
		respond.Error(w, err, "Failed to create todo")
		return
	}
	respond.JSON(w, http.StatusCreated, todo)
}

// GetTodo returns one todo.
func (h *TodosHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todoID, err := respond.PathParam(r, "todoId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Todo ID is required", err)
		return
	}
	todo, err := h.Service.GetTodo(r.Context(), middleware.UserID(r.Context()), todoID)
	if err != nil {
		respond.Error(w, err, "Failed to fetch todo")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

// UpdateTodo edits a todo and moves it between completion states.
func (h *TodosHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	todoID, err := respond.PathParam(r, "todoId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Todo ID is required", err)
		return
	}
	var req updateTodoRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	todo, err := h.Service.UpdateTodo(r.Context(), rewards.UpdateTodoInput{
		UserID:    middleware.UserID(r.Context()),
		TodoID:    todoID,
		Text:      req.Text,
		Money:     req.Money,
		Repeat:    req.Repeat,
		Completed: req.Completed,
	})
	if err != nil {
		respond.Error(w, err, "Failed to update todo")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo and its pending rewards.
func (h *TodosHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	todoID, err := respond.PathParam(r, "todoId")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "Todo ID is required", err)
		return
	}
	if err := h.Service.DeleteTodo(r.Context(), middleware.UserID(r.Context()), todoID); err != nil {
		respond.Error(w, err, "Failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
