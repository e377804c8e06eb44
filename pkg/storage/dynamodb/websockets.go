package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// connection is a record in the WebSocket connection registry. gsi2 groups a user's connections.
type connection struct {
	ConnectionID string `dynamodbav:"connectionId"`
	UserID       string `dynamodbav:"userId"`
}

// AddConnection saves a new WebSocket connection ID for userID to the database.
func (s *Store) AddConnection(ctx context.Context, connectionID, userID string) error {
	item, err := marshalItem(connection{ConnectionID: connectionID, UserID: userID}, map[string]string{
		attrPK:     connectionsPK,
		attrSK:     connectionSK(connectionID),
		attrGSI2PK: connectionGSI2PK(userID),
		attrGSI2SK: connectionSK(connectionID),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.TableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// RemoveConnection deletes a WebSocket connection ID from the database.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.TableName),
		Key:       itemKey(connectionsPK, connectionSK(connectionID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

// GetUserConnections retrieves the WebSocket connection IDs registered for userID.
func (s *Store) GetUserConnections(ctx context.Context, userID string) ([]string, error) {
	var connections []connection
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		IndexName:              aws.String(gsi2Index),
		KeyConditionExpression: aws.String("gsi2pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: connectionGSI2PK(userID)},
		},
	}, &connections)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	connectionIDs := make([]string, len(connections))
	for i, conn := range connections {
		connectionIDs[i] = conn.ConnectionID
	}

	return connectionIDs, nil
}
