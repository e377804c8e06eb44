package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
)

// CreateAccount writes the account metadata item. It fails with storage.ErrConflict if the account exists.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	item, err := marshalItem(account, map[string]string{
		attrPK:     userPK(account.UserID),
		attrSK:     skMetadata,
		attrGSI1PK: accountsGSI1PK,
		attrGSI1SK: account.UserID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := s.putNew(ctx, item); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("account for user ID %s already exists: %w", account.UserID, err)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account and its settings.
func (s *Store) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	if err := s.getItem(ctx, userPK(userID), skMetadata, &account); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("account for user ID %s: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// UpdateSettings replaces the settings of an existing account.
func (s *Store) UpdateSettings(ctx context.Context, userID string, settings models.Settings) error {
	settingsAV, err := attributevalue.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.TableName),
		Key:                 itemKey(userPK(userID), skMetadata),
		UpdateExpression:    aws.String("SET #settings = :settings"),
		ConditionExpression: aws.String("attribute_exists(partitionKey)"),
		ExpressionAttributeNames: map[string]string{
			"#settings": "settings",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":settings": settingsAV,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("account for user ID %s: %w", userID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to update settings in DynamoDB: %w", err)
	}
	return nil
}

// ListAccounts returns every account.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		IndexName:              aws.String(gsi1Index),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: accountsGSI1PK},
		},
	}, &accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
