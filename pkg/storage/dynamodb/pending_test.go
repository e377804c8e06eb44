package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/chris/allowance-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingEntry() *models.PendingEntry {
	return &models.PendingEntry{
		PendingID:   "p1",
		UserID:      "kid",
		Amount:      models.MustParseMoney("1.25"),
		Reason:      "Completed todo: Make the bed",
		Type:        models.PendingFromTodo,
		ReferenceID: "t1",
		CreatedAt:   time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestCreatePending(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			pk := in.Item[attrPK].(*types.AttributeValueMemberS).Value
			sk := in.Item[attrSK].(*types.AttributeValueMemberS).Value
			ref := in.Item["referenceId"].(*types.AttributeValueMemberS).Value
			_, indexed := in.Item[attrGSI2PK]
			amount := in.Item["amount"].(*types.AttributeValueMemberN).Value
			return pk == "USER#kid" && sk == "PENDING#p1" && ref == "t1" && !indexed && amount == "1.25" &&
				*in.ConditionExpression == "attribute_not_exists(partitionKey)"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		err := store.CreatePending(context.Background(), pendingEntry())

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.CreatePending(context.Background(), pendingEntry())

		assert.ErrorIs(t, err, storage.ErrConflict)
	})
}

func TestGetPending(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		item, err := pendingItem(pendingEntry())
		require.NoError(t, err)
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		store := New(mockClient, "allowance")
		entry, err := store.GetPending(context.Background(), "kid", "p1")

		require.NoError(t, err)
		assert.Equal(t, "t1", entry.ReferenceID)
		assert.Equal(t, "1.25", entry.Amount.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, "allowance")
		_, err := store.GetPending(context.Background(), "kid", "p1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListPendingByReference(t *testing.T) {
	item, err := pendingItem(pendingEntry())
	require.NoError(t, err)

	mockClient := new(mocks.DynamoDBAPI)
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.IndexName == nil &&
			in.ConsistentRead != nil && *in.ConsistentRead &&
			in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value == "USER#kid" &&
			in.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value == "PENDING#" &&
			in.ExpressionAttributeValues[":ref"].(*types.AttributeValueMemberS).Value == "t1"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}, nil)

	store := New(mockClient, "allowance")
	entries, err := store.ListPendingByReference(context.Background(), "kid", "t1")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].PendingID)
	mockClient.AssertExpectations(t)
}

func TestDeletePending(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

		store := New(mockClient, "allowance")
		assert.NoError(t, store.DeletePending(context.Background(), "kid", "p1"))
	})

	t.Run("Already Gone", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.DeletePending(context.Background(), "kid", "p1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		store := New(mockClient, "allowance")
		err := store.DeletePending(context.Background(), "kid", "p1")

		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestConnections(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return in.Item[attrPK].(*types.AttributeValueMemberS).Value == "WSCONN" &&
				in.Item[attrSK].(*types.AttributeValueMemberS).Value == "CONN#abc" &&
				in.Item[attrGSI2PK].(*types.AttributeValueMemberS).Value == "WSUSER#kid-1" &&
				in.Item["userId"].(*types.AttributeValueMemberS).Value == "kid-1"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		assert.NoError(t, store.AddConnection(context.Background(), "abc", "kid-1"))
		mockClient.AssertExpectations(t)
	})

	t.Run("List For User", func(t *testing.T) {
		first, err := marshalItem(connection{ConnectionID: "abc", UserID: "kid-1"}, map[string]string{attrPK: connectionsPK, attrSK: connectionSK("abc")})
		require.NoError(t, err)
		second, err := marshalItem(connection{ConnectionID: "def", UserID: "kid-1"}, map[string]string{attrPK: connectionsPK, attrSK: connectionSK("def")})
		require.NoError(t, err)

		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.IndexName != nil && *in.IndexName == gsi2Index &&
				in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value == "WSUSER#kid-1"
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first, second}}, nil)

		store := New(mockClient, "allowance")
		ids, err := store.GetUserConnections(context.Background(), "kid-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"abc", "def"}, ids)
	})

	t.Run("Remove Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		store := New(mockClient, "allowance")
		assert.Error(t, store.RemoveConnection(context.Background(), "abc"))
	})
}
