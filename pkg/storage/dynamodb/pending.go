package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// CreatePending writes a new pending reward entry.
func (s *Store) CreatePending(ctx context.Context, entry *models.PendingEntry) error {
	item, err := pendingItem(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal pending entry: %w", err)
	}
	if err := s.putNew(ctx, item); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("pending entry %s already exists: %w", entry.PendingID, err)
		}
		return fmt.Errorf("failed to create pending entry: %w", err)
	}
	return nil
}

// GetPending retrieves a pending entry.
func (s *Store) GetPending(ctx context.Context, userID, pendingID string) (*models.PendingEntry, error) {
	var entry models.PendingEntry
	if err := s.getItem(ctx, userPK(userID), pendingSK(pendingID), &entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("pending entry %s: %w", pendingID, err)
		}
		return nil, fmt.Errorf("failed to get pending entry: %w", err)
	}
	return &entry, nil
}

// ListPending returns every pending entry of the user.
func (s *Store) ListPending(ctx context.Context, userID string) ([]models.PendingEntry, error) {
	var entries []models.PendingEntry
	if err := s.queryPrefix(ctx, userPK(userID), prefixPending, &entries); err != nil {
		return nil, fmt.Errorf("failed to list pending entries: %w", err)
	}
	return entries, nil
}

// ListPendingByReference returns the user's pending entries that originated from referenceID.
// It reads the user's partition with a consistent read, so an entry written just before is seen.
func (s *Store) ListPendingByReference(ctx context.Context, userID, referenceID string) ([]models.PendingEntry, error) {
	var entries []models.PendingEntry
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		KeyConditionExpression: aws.String("partitionKey = :pk AND begins_with(sortKey, :prefix)"),
		FilterExpression:       aws.String("referenceId = :ref"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: prefixPending},
			":ref":    &types.AttributeValueMemberS{Value: referenceID},
		},
		ConsistentRead: aws.Bool(true),
	}, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending entries for reference %s: %w", referenceID, err)
	}
	return entries, nil
}

// DeletePending removes a pending entry without touching the balance.
func (s *Store) DeletePending(ctx context.Context, userID, pendingID string) error {
	if err := s.deleteExisting(ctx, userPK(userID), pendingSK(pendingID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("pending entry %s: %w", pendingID, err)
		}
		return fmt.Errorf("failed to delete pending entry: %w", err)
	}
	return nil
}
