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

func testTodo() *models.Todo {
	return &models.Todo{
		TodoID:    "t1",
		UserID:    "kid",
		Text:      "Clean room",
		Completed: models.PendingApproval,
		Money:     models.MustParseMoney("2.00"),
		Repeat:    models.Daily,
		CreatedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestCreateTodo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			gsi, ok := in.Item[attrGSI1PK].(*types.AttributeValueMemberS)
			return ok && gsi.Value == "TODO#daily#pending" &&
				aws.ToString(in.ConditionExpression) == "attribute_not_exists(partitionKey)"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		err := store.CreateTodo(context.Background(), testTodo())

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.CreateTodo(context.Background(), testTodo())

		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}

func TestGetTodo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		item, err := todoItem(testTodo())
		require.NoError(t, err)
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		store := New(mockClient, "allowance")
		todo, err := store.GetTodo(context.Background(), "kid", "t1")

		require.NoError(t, err)
		assert.Equal(t, "Clean room", todo.Text)
		assert.Equal(t, models.PendingApproval, todo.Completed)
		assert.Equal(t, "2.00", todo.Money.String())
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		store := New(mockClient, "allowance")
		_, err := store.GetTodo(context.Background(), "kid", "t1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListTodosByState(t *testing.T) {
	item, err := todoItem(testTodo())
	require.NoError(t, err)

	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		pk, ok := in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)
		return aws.ToString(in.IndexName) == gsi1Index && ok && pk.Value == "TODO#daily#pending"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

	store := New(mockClient, "allowance")
	todos, err := store.ListTodosByState(context.Background(), models.Daily, models.PendingApproval)

	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "t1", todos[0].TodoID)
	mockClient.AssertExpectations(t)
}

func TestUpdateTodo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			expected, ok := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS)
			return ok && expected.Value == "false"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		err := store.UpdateTodo(context.Background(), testTodo(), models.NotCompleted)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.UpdateTodo(context.Background(), testTodo(), models.NotCompleted)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("State Moved", func(t *testing.T) {
		old, err := todoItem(testTodo())
		require.NoError(t, err)
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: old})

		store := New(mockClient, "allowance")
		err = store.UpdateTodo(context.Background(), testTodo(), models.NotCompleted)

		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		store := New(mockClient, "allowance")
		err := store.UpdateTodo(context.Background(), testTodo(), models.NotCompleted)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update todo in DynamoDB")
	})
}

func TestDeleteTodo(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

		store := New(mockClient, "allowance")
		assert.NoError(t, store.DeleteTodo(context.Background(), "kid", "t1"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.DeleteTodo(context.Background(), "kid", "t1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
