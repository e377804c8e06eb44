package storage

import "context"

// ConnectionStore stores WebSocket connection IDs together with the user each one listens for.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID, userID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetUserConnections(ctx context.Context, userID string) ([]string, error)
}
