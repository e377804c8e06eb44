// Package websockets pushes live balance updates to connected clients, through the API Gateway
// management API when deployed and through a local gorilla/websocket hub in development.
package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// Publisher defines the interface for publishing messages to WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// GatewayAPI is the subset of the API Gateway management client the publisher uses.
type GatewayAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// errNoRecipient is returned for a message that names no user.
var errNoRecipient = errors.New("message has no recipient user")

// DefaultPublisher posts each message to the connections its user registered in the store.
type DefaultPublisher struct {
	Store   storage.ConnectionStore
	Gateway GatewayAPI
	Logger  *slog.Logger
}

// NewPublisher creates a DefaultPublisher for the API Gateway endpoint apiEndpoint.
func NewPublisher(ctx context.Context, store storage.ConnectionStore, apiEndpoint string, logger *slog.Logger) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultPublisher{Store: store, Gateway: client, Logger: logger}, nil
}

var _ Publisher = (*DefaultPublisher)(nil)

// Publish sends a message to the connections of message.UserID. Stale connections are removed;
// other per-connection failures are logged.
func (p *DefaultPublisher) Publish(ctx context.Context, message Message) error {
	if message.UserID == "" {
		return errNoRecipient
	}
	connectionIDs, err := p.Store.GetUserConnections(ctx, message.UserID)
	if err != nil {
		return fmt.Errorf("failed to get connections for user %s: %w", message.UserID, err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.Gateway.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var goneErr *apigwtypes.GoneException
		if errors.As(err, &goneErr) {
			p.Logger.Info("stale connection found, deleting", "connection_id", connectionID)
			if err := p.Store.RemoveConnection(ctx, connectionID); err != nil {
				p.Logger.Error("failed to delete stale connection", "connection_id", connectionID, "error", err)
			}
			continue
		}
		p.Logger.Error("failed to post to connection", "connection_id", connectionID, "error", err)
	}

	return nil
}

// NoOpPublisher drops every message. Used when no websocket endpoint is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (NoOpPublisher) Publish(context.Context, Message) error { return nil }

// PublishBalanceChange publishes a balanceUpdate for entry. Failures are logged, never returned.
func PublishBalanceChange(ctx context.Context, p Publisher, logger *slog.Logger, entry *models.BalanceLog) {
	if p == nil || entry == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Publish(ctx, NewBalanceUpdate(entry)); err != nil {
		logger.Error("failed to publish balance update", "user_id", entry.UserID, "error", err)
	}
}
