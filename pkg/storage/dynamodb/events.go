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

func eventItem(event *models.Event) (map[string]types.AttributeValue, error) {
	return marshalItem(event, map[string]string{
		attrPK:     userPK(event.UserID),
		attrSK:     eventSK(event.EventID),
		attrGSI2PK: eventSK(event.EventID),
		attrGSI2SK: eventSK(event.EventID),
	})
}

// CreateEvent writes a new event.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	item, err := eventItem(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.putNew(ctx, item); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("event %s already exists: %w", event.EventID, err)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent finds an event by its ID through gsi2.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var events []models.Event
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		IndexName:              aws.String(gsi2Index),
		KeyConditionExpression: aws.String("gsi2pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: eventSK(eventID)},
		},
	}, &events)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return &events[0], nil
}

// ListEvents returns the user's events.
func (s *Store) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	var events []models.Event
	if err := s.queryPrefix(ctx, userPK(userID), prefixEvent, &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent replaces an existing event.
func (s *Store) UpdateEvent(ctx context.Context, event *models.Event) error {
	item, err := eventItem(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.replaceExisting(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("event %s: %w", event.EventID, err)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// DeleteEvent removes one event.
func (s *Store) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if err := s.deleteExisting(ctx, userPK(userID), eventSK(eventID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
