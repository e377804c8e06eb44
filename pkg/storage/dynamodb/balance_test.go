package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/chris/allowance-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func balanceOutput(t *testing.T, userID, amount string, version int64) *dynamodb.GetItemOutput {
	t.Helper()
	item, err := marshalItem(models.Balance{UserID: userID, Balance: models.MustParseMoney(amount), Version: version}, map[string]string{
		attrPK: userPK(userID),
		attrSK: skBalance,
	})
	require.NoError(t, err)
	return &dynamodb.GetItemOutput{Item: item}
}

func canceled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, code := range codes {
		reasons[i] = types.CancellationReason{Code: aws.String(code)}
	}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func addAmount(amount string) func(models.Money) models.Money {
	return func(before models.Money) models.Money { return before.Plus(models.MustParseMoney(amount)) }
}

func TestGetBalance(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "12.50", 3), nil)

		store := New(mockClient, "allowance")
		balance, err := store.GetBalance(context.Background(), "kid")

		require.NoError(t, err)
		assert.Equal(t, "12.50", balance.Balance.String())
		assert.Equal(t, int64(3), balance.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Missing Defaults To Zero", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, "allowance")
		balance, err := store.GetBalance(context.Background(), "kid")

		require.NoError(t, err)
		assert.Equal(t, "0.00", balance.Balance.String())
		assert.Equal(t, int64(0), balance.Version)
		assert.Equal(t, "kid", balance.UserID)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		store := New(mockClient, "allowance")
		_, err := store.GetBalance(context.Background(), "kid")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get balance")
	})
}

func TestApplyBalanceChange(t *testing.T) {
	ts := time.Date(2026, 10, 16, 21, 10, 0, 0, time.UTC)
	consume := []models.PendingEntry{{PendingID: "p1", UserID: "kid", Amount: models.MustParseMoney("2.00")}}

	t.Run("Success First Write", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			balancePut := in.TransactItems[0].Put
			pendingDelete := in.TransactItems[2].Delete
			return balancePut != nil &&
				aws.ToString(balancePut.ConditionExpression) == "attribute_not_exists(partitionKey)" &&
				in.TransactItems[1].Put != nil &&
				pendingDelete != nil &&
				pendingDelete.Key[attrSK].(*types.AttributeValueMemberS).Value == "PENDING#p1"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := New(mockClient, "allowance")
		entry, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("2.00"),
			Log:     models.BalanceLog{LogID: "log-1", Reason: "Completed todo: Clean room", Type: models.LogEarn, Source: models.SourcePendingApproval, Timestamp: ts},
			Consume: consume,
		})

		require.NoError(t, err)
		assert.Equal(t, "0.00", entry.BalanceBefore.String())
		assert.Equal(t, "2.00", entry.BalanceAfter.String())
		assert.Equal(t, "2.00", entry.Amount.String())
		assert.Equal(t, "kid", entry.UserID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Retries On Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled(reasonConditionalCheckFailed, "None")).Once()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "7.00", 2), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			v, ok := in.TransactItems[0].Put.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN)
			return ok && v.Value == "2"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := New(mockClient, "allowance")
		entry, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply: addAmount("1.00"),
			Log:   models.BalanceLog{Type: models.LogAdjust, Source: models.SourceManualEdit, Timestamp: ts},
		})

		require.NoError(t, err)
		assert.Equal(t, "7.00", entry.BalanceBefore.String())
		assert.Equal(t, "8.00", entry.BalanceAfter.String())
		assert.NotEmpty(t, entry.LogID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Consumed Entry Missing", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled("None", "None", reasonConditionalCheckFailed)).Once()

		store := New(mockClient, "allowance")
		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("2.00"),
			Log:     models.BalanceLog{Timestamp: ts},
			Consume: consume,
		})

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Contains(t, err.Error(), "p1")
		mockClient.AssertExpectations(t)
	})

	t.Run("Writes Todo In The Same Transaction", func(t *testing.T) {
		todo := models.Todo{TodoID: "t1", UserID: "kid", Text: "Clean room", Repeat: models.Daily, Completed: models.Approved}
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 4 {
				return false
			}
			todoPut := in.TransactItems[2].Put
			if todoPut == nil {
				return false
			}
			expected := todoPut.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
			completed := todoPut.Item["completed"].(*types.AttributeValueMemberS).Value
			return todoPut.Item[attrSK].(*types.AttributeValueMemberS).Value == "TODO#t1" &&
				expected == string(models.PendingApproval) && completed == string(models.Approved) &&
				in.TransactItems[3].Delete != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := New(mockClient, "allowance")
		entry, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("2.00"),
			Log:     models.BalanceLog{Timestamp: ts},
			Consume: consume,
			Todo:    &storage.TodoWrite{Todo: todo, Expected: models.PendingApproval},
		})

		require.NoError(t, err)
		assert.Equal(t, "7.00", entry.BalanceAfter.String())
		mockClient.AssertExpectations(t)
	})

	t.Run("Deletes Once Todo", func(t *testing.T) {
		todo := models.Todo{TodoID: "t2", UserID: "kid", Repeat: models.Once, Completed: models.PendingApproval}
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			del := in.TransactItems[2].Delete
			return del != nil && del.Key[attrSK].(*types.AttributeValueMemberS).Value == "TODO#t2"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		store := New(mockClient, "allowance")
		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("2.00"),
			Log:     models.BalanceLog{Timestamp: ts},
			Consume: consume,
			Todo:    &storage.TodoWrite{Todo: todo, Expected: models.PendingApproval, Delete: true},
		})

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Todo Moved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled("None", "None", reasonConditionalCheckFailed, "None")).Once()

		store := New(mockClient, "allowance")
		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("2.00"),
			Log:     models.BalanceLog{Timestamp: ts},
			Consume: consume,
			Todo:    &storage.TodoWrite{Todo: models.Todo{TodoID: "t1", UserID: "kid"}, Expected: models.PendingApproval},
		})

		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Retries Exhausted", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(balanceOutput(t, "kid", "5.00", 1), nil).Times(2)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled(reasonTransactionConflict, "None")).Times(2)

		store := &Store{Client: mockClient, TableName: "allowance", MaxRetries: 2}
		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply: addAmount("1.00"),
			Log:   models.BalanceLog{Timestamp: ts},
		})

		assert.ErrorIs(t, err, storage.ErrConcurrentUpdate)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		store := New(mockClient, "allowance")
		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply: addAmount("1.00"),
			Log:   models.BalanceLog{Timestamp: ts},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute balance change transaction")
	})

	t.Run("Too Many Entries", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "allowance")

		_, err := store.ApplyBalanceChange(context.Background(), "kid", storage.BalanceChange{
			Apply:   addAmount("1.00"),
			Consume: make([]models.PendingEntry, storage.MaxConsumePerChange+1),
		})

		assert.Error(t, err)
		mockClient.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
	})
}

func TestListBalanceLogs(t *testing.T) {
	older, err := marshalItem(models.BalanceLog{LogID: "a", Reason: "older"}, nil)
	require.NoError(t, err)
	newer, err := marshalItem(models.BalanceLog{LogID: "b", Reason: "newer"}, nil)
	require.NoError(t, err)

	t.Run("Newest First With Limit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return !aws.ToBool(in.ScanIndexForward) && aws.ToInt32(in.Limit) == 2
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{newer, older}}, nil)

		store := New(mockClient, "allowance")
		logs, err := store.ListBalanceLogs(context.Background(), "kid", 2)

		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "newer", logs[0].Reason)
		mockClient.AssertExpectations(t)
	})

	t.Run("All Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items:            []map[string]types.AttributeValue{newer},
			LastEvaluatedKey: itemKey("USER#kid", "BALANCELOG#x"),
		}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{older},
		}, nil).Once()

		store := New(mockClient, "allowance")
		logs, err := store.ListBalanceLogs(context.Background(), "kid", 0)

		require.NoError(t, err)
		assert.Len(t, logs, 2)
		mockClient.AssertExpectations(t)
	})
}

func TestBalanceLogSortKeyOrdersChronologically(t *testing.T) {
	early := balanceLogSK(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), "z")
	later := balanceLogSK(time.Date(2026, 1, 1, 9, 0, 0, 500, time.UTC), "a")
	assert.Less(t, early, later)
}
