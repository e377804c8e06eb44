package dynamodb

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/chris/allowance-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestClaimScheduleRun(t *testing.T) {
	claimedAt := time.Date(2026, 10, 16, 21, 10, 0, 0, time.UTC)
	run := models.ScheduleRun{
		Repeat:       models.Daily,
		Period:       "2026-10-16",
		Status:       models.RunRunning,
		ClaimedAt:    claimedAt,
		LeaseExpires: claimedAt.Add(15 * time.Minute).Unix(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			pk, ok := in.Item[attrPK].(*types.AttributeValueMemberS)
			period, ok2 := in.ExpressionAttributeValues[":period"].(*types.AttributeValueMemberS)
			now, ok3 := in.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberN)
			status, ok4 := in.Item["status"].(*types.AttributeValueMemberS)
			return ok && ok2 && ok3 && ok4 && pk.Value == "SCHEDULE#daily" && period.Value == "2026-10-16" &&
				now.Value == strconv.FormatInt(claimedAt.Unix(), 10) && status.Value == "running"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		assert.NoError(t, store.ClaimScheduleRun(context.Background(), run))
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Claimed", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		store := New(mockClient, "allowance")
		err := store.ClaimScheduleRun(context.Background(), run)

		assert.ErrorIs(t, err, storage.ErrAlreadyClaimed)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		store := New(mockClient, "allowance")
		err := store.ClaimScheduleRun(context.Background(), run)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrAlreadyClaimed)
	})
}

func TestSaveScheduleRun(t *testing.T) {
	run := models.ScheduleRun{Repeat: models.Weekly, Period: "2026-W42", Status: models.RunDone, PenaltiesApplied: true}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			status := in.Item["status"].(*types.AttributeValueMemberS).Value
			penalties := in.Item["penaltiesApplied"].(*types.AttributeValueMemberBOOL).Value
			return in.ConditionExpression == nil && status == "done" && penalties &&
				in.Item[attrPK].(*types.AttributeValueMemberS).Value == "SCHEDULE#weekly"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		store := New(mockClient, "allowance")
		assert.NoError(t, store.SaveScheduleRun(context.Background(), run))
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		store := New(mockClient, "allowance")
		err := store.SaveScheduleRun(context.Background(), run)

		assert.ErrorContains(t, err, "failed to save schedule run")
	})
}

func TestGetScheduleRun(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		item, err := scheduleRunItem(models.ScheduleRun{Repeat: models.Daily, Period: "2026-10-16", Status: models.RunFailed})
		assert.NoError(t, err)
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil)

		store := New(mockClient, "allowance")
		run, err := store.GetScheduleRun(context.Background(), models.Daily)

		assert.NoError(t, err)
		assert.Equal(t, models.RunFailed, run.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		store := New(mockClient, "allowance")
		_, err := store.GetScheduleRun(context.Background(), models.Daily)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
