// Package websockets handles the API Gateway websocket lifecycle routes.
package websockets

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// Handler registers and removes API Gateway websocket connections.
type Handler struct {
	Store  storage.ConnectionStore
	Logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(store storage.ConnectionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Store: store, Logger: logger}
}

// Handle dispatches on the route key ($connect, $disconnect or anything else).
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return h.HandleConnect(ctx, request)
	case "$disconnect":
		return h.HandleDisconnect(ctx, request)
	default:
		return h.HandleDefault(ctx, request)
	}
}

// HandleConnect registers a new client for the user named by the userId query parameter or
// the X-User-Id header. Connections without a user are refused.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	userID := connectUserID(request)
	if userID == "" {
		h.Logger.Info("refusing connection without user", "connection_id", connectionID)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
	}
	h.Logger.Info("client connected", "connection_id", connectionID, "user_id", userID)

	if err := h.Store.AddConnection(ctx, connectionID, userID); err != nil {
		h.Logger.Error("failed to save connection ID", "connection_id", connectionID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func connectUserID(request events.APIGatewayWebsocketProxyRequest) string {
	if userID := strings.TrimSpace(request.QueryStringParameters["userId"]); userID != "" {
		return userID
	}
	for name, value := range request.Headers {
		if strings.EqualFold(name, middleware.UserIDHeader) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	h.Logger.Info("client disconnected", "connection_id", connectionID)

	if err := h.Store.RemoveConnection(ctx, connectionID); err != nil {
		h.Logger.Error("failed to delete connection ID", "connection_id", connectionID, "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault acknowledges client messages. Clients only listen.
func (h *Handler) HandleDefault(_ context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.Logger.Debug("received message", "connection_id", request.RequestContext.ConnectionID, "body", request.Body)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}
