package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DefaultMaxRetries bounds the optimistic-lock retries of a balance change.
const DefaultMaxRetries = 5

// Store implements the Storage interface on a single DynamoDB table.
type Store struct {
	Client     DynamoDBAPI
	TableName  string
	MaxRetries int
}

// New creates a new Store.
func New(client DynamoDBAPI, tableName string) *Store {
	return &Store{
		Client:     client,
		TableName:  tableName,
		MaxRetries: DefaultMaxRetries,
	}
}

// Connect loads the default AWS configuration and returns a Store on tableName. A non-empty
// endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
func Connect(ctx context.Context, tableName, endpoint string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return New(client, tableName), nil
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// getItem loads the item at (pk, sk) into out. It returns storage.ErrNotFound when the item is absent.
func (s *Store) getItem(ctx context.Context, pk, sk string, out any) error {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName),
		Key:            itemKey(pk, sk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return storage.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return nil
}

// putNew writes item only if no item with the same key exists.
func (s *Store) putNew(ctx context.Context, item map[string]types.AttributeValue) error {
	_, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(partitionKey)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

// replaceExisting overwrites item only if an item with the same key exists.
func (s *Store) replaceExisting(ctx context.Context, item map[string]types.AttributeValue) error {
	_, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(partitionKey)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

// deleteExisting removes the item at (pk, sk), failing with storage.ErrNotFound if it is absent.
func (s *Store) deleteExisting(ctx context.Context, pk, sk string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.TableName),
		Key:                 itemKey(pk, sk),
		ConditionExpression: aws.String("attribute_exists(partitionKey)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete item from DynamoDB: %w", err)
	}
	return nil
}

// queryAll runs input to completion, following LastEvaluatedKey, and unmarshals every item into out.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput, out any) error {
	var items []map[string]types.AttributeValue
	for {
		page, err := s.Client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to query DynamoDB: %w", err)
		}
		items = append(items, page.Items...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return nil
}

// queryPrefix returns every item in partition pk whose sort key begins with prefix.
func (s *Store) queryPrefix(ctx context.Context, pk, prefix string, out any) error {
	return s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		KeyConditionExpression: aws.String("partitionKey = :pk AND begins_with(sortKey, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pk},
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
		ConsistentRead: aws.Bool(true),
	}, out)
}

func isConditionFailed(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	return errors.As(err, &condCheckFailed)
}

// cancellationCodes returns the per-item cancellation codes of a failed transaction, or nil.
func cancellationCodes(err error) []string {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return nil
	}
	codes := make([]string, len(canceled.CancellationReasons))
	for i, reason := range canceled.CancellationReasons {
		codes[i] = aws.ToString(reason.Code)
	}
	return codes
}
