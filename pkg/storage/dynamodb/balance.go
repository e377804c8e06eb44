package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/google/uuid"
)

const (
	reasonConditionalCheckFailed = "ConditionalCheckFailed"
	reasonTransactionConflict    = "TransactionConflict"
)

// GetBalance retrieves the user's balance. A user without a balance item has a zero balance at version 0.
func (s *Store) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	var balance models.Balance
	err := s.getItem(ctx, userPK(userID), skBalance, &balance)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.Balance{UserID: userID, Balance: models.ZeroMoney}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// ApplyBalanceChange applies change with optimistic concurrency on the balance version.
// The new balance, the log entry, the optional todo write and the deletion of every consumed
// pending entry are written in one transaction. If a consumed entry no longer exists the change
// is abandoned with storage.ErrNotFound, so an entry can never be credited twice. A todo that
// moved out of its expected state abandons it with storage.ErrConflict.
func (s *Store) ApplyBalanceChange(ctx context.Context, userID string, change storage.BalanceChange) (*models.BalanceLog, error) {
	if len(change.Consume) > storage.MaxConsumePerChange {
		return nil, fmt.Errorf("cannot consume %d pending entries in one change, the limit is %d", len(change.Consume), storage.MaxConsumePerChange)
	}

	retries := s.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		current, err := s.GetBalance(ctx, userID)
		if err != nil {
			return nil, err
		}

		entry := change.Log
		entry.UserID = userID
		if entry.LogID == "" {
			entry.LogID = uuid.New().String()
		}
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now().UTC()
		}
		entry.BalanceBefore = current.Balance
		entry.BalanceAfter = change.Apply(current.Balance)
		entry.Amount = entry.BalanceAfter.Minus(entry.BalanceBefore)

		input, err := s.balanceChangeInput(current, &entry, change)
		if err != nil {
			return nil, err
		}

		_, err = s.Client.TransactWriteItems(ctx, input)
		if err == nil {
			return &entry, nil
		}

		codes := cancellationCodes(err)
		if codes == nil {
			return nil, fmt.Errorf("failed to execute balance change transaction: %w", err)
		}
		consumeAt := 2
		if change.Todo != nil {
			consumeAt = 3
		}
		for i := consumeAt; i < len(codes); i++ {
			if codes[i] == reasonConditionalCheckFailed {
				return nil, fmt.Errorf("pending entry %s: %w", change.Consume[i-consumeAt].PendingID, storage.ErrNotFound)
			}
		}
		if change.Todo != nil && len(codes) > 2 && codes[2] == reasonConditionalCheckFailed {
			return nil, fmt.Errorf("todo %s is no longer %s: %w", change.Todo.Todo.TodoID, change.Todo.Expected, storage.ErrConflict)
		}
		if len(codes) > 1 && codes[1] == reasonConditionalCheckFailed {
			return nil, fmt.Errorf("balance log %s already exists: %w", entry.LogID, storage.ErrConflict)
		}
		if codes[0] == reasonConditionalCheckFailed || codes[0] == reasonTransactionConflict {
			// The balance moved since it was read; read it again.
			continue
		}
		return nil, fmt.Errorf("failed to execute balance change transaction: %w", err)
	}

	return nil, fmt.Errorf("balance for user ID %s after %d attempts: %w", userID, retries, storage.ErrConcurrentUpdate)
}

func (s *Store) balanceChangeInput(current *models.Balance, entry *models.BalanceLog, change storage.BalanceChange) (*dynamodb.TransactWriteItemsInput, error) {
	next := models.Balance{
		UserID:  current.UserID,
		Balance: entry.BalanceAfter,
		Version: current.Version + 1,
	}
	balanceAV, err := marshalItem(next, map[string]string{
		attrPK: userPK(current.UserID),
		attrSK: skBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance: %w", err)
	}

	balancePut := &types.Put{
		TableName: aws.String(s.TableName),
		Item:      balanceAV,
	}
	if current.Version == 0 {
		balancePut.ConditionExpression = aws.String("attribute_not_exists(partitionKey)")
	} else {
		balancePut.ConditionExpression = aws.String("version = :version")
		balancePut.ExpressionAttributeValues = map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", current.Version)},
		}
	}

	logAV, err := marshalItem(entry, map[string]string{
		attrPK: userPK(entry.UserID),
		attrSK: balanceLogSK(entry.Timestamp, entry.LogID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance log: %w", err)
	}

	items := []types.TransactWriteItem{
		{Put: balancePut},
		{
			Put: &types.Put{
				TableName:           aws.String(s.TableName),
				Item:                logAV,
				ConditionExpression: aws.String("attribute_not_exists(partitionKey)"),
			},
		},
	}
	if change.Todo != nil {
		item, err := s.todoWriteItem(change.Todo)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	for _, p := range change.Consume {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:           aws.String(s.TableName),
				Key:                 itemKey(userPK(p.UserID), pendingSK(p.PendingID)),
				ConditionExpression: aws.String("attribute_exists(partitionKey)"),
			},
		})
	}

	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}

func (s *Store) todoWriteItem(w *storage.TodoWrite) (types.TransactWriteItem, error) {
	condition := aws.String("attribute_exists(partitionKey) AND #completed = :expected")
	names := map[string]string{"#completed": "completed"}
	values := map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberS{Value: string(w.Expected)},
	}
	if w.Delete {
		return types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:                 aws.String(s.TableName),
				Key:                       itemKey(userPK(w.Todo.UserID), todoSK(w.Todo.TodoID)),
				ConditionExpression:       condition,
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			},
		}, nil
	}

	item, err := todoItem(&w.Todo)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal todo: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:                 aws.String(s.TableName),
			Item:                      item,
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}, nil
}

// ListBalanceLogs returns the user's balance log, most recent first.
func (s *Store) ListBalanceLogs(ctx context.Context, userID string, limit int) ([]models.BalanceLog, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		KeyConditionExpression: aws.String("partitionKey = :pk AND begins_with(sortKey, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: prefixBalanceLog},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
	}

	var logs []models.BalanceLog
	if limit <= 0 {
		if err := s.queryAll(ctx, input, &logs); err != nil {
			return nil, fmt.Errorf("failed to list balance logs: %w", err)
		}
		return logs, nil
	}

	input.Limit = aws.Int32(int32(limit))
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for balance logs: %w", err)
	}
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance logs: %w", err)
	}
	return logs, nil
}
