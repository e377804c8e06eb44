package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// ClaimScheduleRun atomically records run as the latest pass for its recurrence class.
// It fails with storage.ErrAlreadyClaimed if the pass for the same period is done, or is running
// with a lease that has not expired at run.ClaimedAt.
func (s *Store) ClaimScheduleRun(ctx context.Context, run models.ScheduleRun) error {
	item, err := scheduleRunItem(run)
	if err != nil {
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
		ConditionExpression: aws.String("attribute_not_exists(partitionKey) OR #period <> :period OR #status = :failed" +
			" OR (#status = :running AND leaseExpires <= :now)"),
		ExpressionAttributeNames: map[string]string{
			"#period": "period",
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":period":  &types.AttributeValueMemberS{Value: run.Period},
			":failed":  &types.AttributeValueMemberS{Value: string(models.RunFailed)},
			":running": &types.AttributeValueMemberS{Value: string(models.RunRunning)},
			":now":     &types.AttributeValueMemberN{Value: strconv.FormatInt(run.ClaimedAt.Unix(), 10)},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("%s pass for %s: %w", run.Repeat, run.Period, storage.ErrAlreadyClaimed)
		}
		return fmt.Errorf("failed to claim schedule run: %w", err)
	}
	return nil
}

// SaveScheduleRun overwrites the run record. Only the holder of the claim calls it.
func (s *Store) SaveScheduleRun(ctx context.Context, run models.ScheduleRun) error {
	item, err := scheduleRunItem(run)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save schedule run: %w", err)
	}
	return nil
}

func scheduleRunItem(run models.ScheduleRun) (map[string]types.AttributeValue, error) {
	item, err := marshalItem(run, map[string]string{
		attrPK: schedulePK(run.Repeat),
		attrSK: skScheduleRun,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule run: %w", err)
	}
	return item, nil
}

// GetScheduleRun returns the latest claimed pass for the recurrence class.
func (s *Store) GetScheduleRun(ctx context.Context, repeat models.Repeat) (*models.ScheduleRun, error) {
	var run models.ScheduleRun
	if err := s.getItem(ctx, schedulePK(repeat), skScheduleRun, &run); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s schedule run: %w", repeat, err)
		}
		return nil, fmt.Errorf("failed to get schedule run: %w", err)
	}
	return &run, nil
}
