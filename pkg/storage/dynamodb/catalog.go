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

// maxTransactItems is the DynamoDB limit on items in one TransactWriteItems call.
const maxTransactItems = 100

func behaviorItem(behavior *models.Behavior) (map[string]types.AttributeValue, error) {
	return marshalItem(behavior, map[string]string{
		attrPK: userPK(behavior.UserID),
		attrSK: behaviorSK(behavior.BehaviorID),
	})
}

func activityItem(activity *models.Activity) (map[string]types.AttributeValue, error) {
	return marshalItem(activity, map[string]string{
		attrPK:     userPK(activity.UserID),
		attrSK:     activitySK(activity.BehaviorID, activity.ActivityID),
		attrGSI2PK: activityGSI2PK(activity.ActivityID),
		attrGSI2SK: activityGSI2PK(activity.ActivityID),
	})
}

// CreateBehavior writes a new behavior.
func (s *Store) CreateBehavior(ctx context.Context, behavior *models.Behavior) error {
	item, err := behaviorItem(behavior)
	if err != nil {
		return fmt.Errorf("failed to marshal behavior: %w", err)
	}
	if err := s.putNew(ctx, item); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("behavior %s already exists: %w", behavior.BehaviorID, err)
		}
		return fmt.Errorf("failed to create behavior: %w", err)
	}
	return nil
}

// GetBehavior retrieves a behavior.
func (s *Store) GetBehavior(ctx context.Context, userID, behaviorID string) (*models.Behavior, error) {
	var behavior models.Behavior
	if err := s.getItem(ctx, userPK(userID), behaviorSK(behaviorID), &behavior); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("behavior %s: %w", behaviorID, err)
		}
		return nil, fmt.Errorf("failed to get behavior: %w", err)
	}
	return &behavior, nil
}

// ListBehaviors returns the user's behaviors. Activities share the sort key prefix and are filtered out.
func (s *Store) ListBehaviors(ctx context.Context, userID string) ([]models.Behavior, error) {
	var behaviors []models.Behavior
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		KeyConditionExpression: aws.String("partitionKey = :pk AND begins_with(sortKey, :prefix)"),
		FilterExpression:       aws.String("attribute_not_exists(activityId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: prefixBehavior},
		},
	}, &behaviors)
	if err != nil {
		return nil, fmt.Errorf("failed to list behaviors: %w", err)
	}
	return behaviors, nil
}

// UpdateBehavior replaces an existing behavior.
func (s *Store) UpdateBehavior(ctx context.Context, behavior *models.Behavior) error {
	item, err := behaviorItem(behavior)
	if err != nil {
		return fmt.Errorf("failed to marshal behavior: %w", err)
	}
	if err := s.replaceExisting(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("behavior %s: %w", behavior.BehaviorID, err)
		}
		return fmt.Errorf("failed to update behavior: %w", err)
	}
	return nil
}

// DeleteBehavior deletes the behavior's activities and then the behavior itself.
// Activities are removed in batches; the last batch carries the behavior delete.
func (s *Store) DeleteBehavior(ctx context.Context, userID, behaviorID string) error {
	if _, err := s.GetBehavior(ctx, userID, behaviorID); err != nil {
		return err
	}
	activities, err := s.ListActivities(ctx, userID, behaviorID)
	if err != nil {
		return err
	}

	deletes := make([]types.TransactWriteItem, 0, len(activities)+1)
	for _, a := range activities {
		deletes = append(deletes, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.TableName),
				Key:       itemKey(userPK(userID), activitySK(behaviorID, a.ActivityID)),
			},
		})
	}
	deletes = append(deletes, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:           aws.String(s.TableName),
			Key:                 itemKey(userPK(userID), behaviorSK(behaviorID)),
			ConditionExpression: aws.String("attribute_exists(partitionKey)"),
		},
	})

	for start := 0; start < len(deletes); start += maxTransactItems {
		end := min(start+maxTransactItems, len(deletes))
		_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: deletes[start:end],
		})
		if err != nil {
			codes := cancellationCodes(err)
			if end == len(deletes) && len(codes) > 0 && codes[len(codes)-1] == reasonConditionalCheckFailed {
				return fmt.Errorf("behavior %s: %w", behaviorID, storage.ErrNotFound)
			}
			return fmt.Errorf("failed to delete behavior %s: %w", behaviorID, err)
		}
	}
	return nil
}

// CreateActivity writes a new activity, checking in the same transaction that its behavior exists.
func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	item, err := activityItem(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				ConditionCheck: &types.ConditionCheck{
					TableName:           aws.String(s.TableName),
					Key:                 itemKey(userPK(activity.UserID), behaviorSK(activity.BehaviorID)),
					ConditionExpression: aws.String("attribute_exists(partitionKey)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.TableName),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(partitionKey)"),
				},
			},
		},
	})
	if err != nil {
		codes := cancellationCodes(err)
		if len(codes) == 2 && codes[0] == reasonConditionalCheckFailed {
			return fmt.Errorf("behavior %s: %w", activity.BehaviorID, storage.ErrNotFound)
		}
		if len(codes) == 2 && codes[1] == reasonConditionalCheckFailed {
			return fmt.Errorf("activity %s already exists: %w", activity.ActivityID, storage.ErrConflict)
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetActivity finds an activity by its ID through gsi2.
func (s *Store) GetActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	var activities []models.Activity
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		IndexName:              aws.String(gsi2Index),
		KeyConditionExpression: aws.String("gsi2pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: activityGSI2PK(activityID)},
		},
	}, &activities)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("activity %s: %w", activityID, storage.ErrNotFound)
	}
	return &activities[0], nil
}

// ListActivities returns the activities of one behavior.
func (s *Store) ListActivities(ctx context.Context, userID, behaviorID string) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.queryPrefix(ctx, userPK(userID), activityPrefix(behaviorID), &activities); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// UpdateActivity replaces an existing activity.
func (s *Store) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	item, err := activityItem(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}
	if err := s.replaceExisting(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("activity %s: %w", activity.ActivityID, err)
		}
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

// DeleteActivity removes one activity.
func (s *Store) DeleteActivity(ctx context.Context, userID, behaviorID, activityID string) error {
	if err := s.deleteExisting(ctx, userPK(userID), activitySK(behaviorID, activityID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("activity %s: %w", activityID, err)
		}
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
