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

// CreateTodo writes a new todo.
func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo) error {
	item, err := todoItem(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}
	if err := s.putNew(ctx, item); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return fmt.Errorf("todo %s already exists: %w", todo.TodoID, err)
		}
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// GetTodo retrieves a todo by owner and ID.
func (s *Store) GetTodo(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	var todo models.Todo
	if err := s.getItem(ctx, userPK(userID), todoSK(todoID), &todo); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("todo %s: %w", todoID, err)
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return &todo, nil
}

// ListTodos returns all todos owned by the user.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]models.Todo, error) {
	var todos []models.Todo
	if err := s.queryPrefix(ctx, userPK(userID), prefixTodo, &todos); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// ListTodosByState queries gsi1, which is keyed on the todo's recurrence and completion state.
func (s *Store) ListTodosByState(ctx context.Context, repeat models.Repeat, completed models.Completion) ([]models.Todo, error) {
	var todos []models.Todo
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		IndexName:              aws.String(gsi1Index),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: todoStateGSI1PK(repeat, completed)},
		},
	}, &todos)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s todos in state %s: %w", repeat, completed, err)
	}
	return todos, nil
}

// UpdateTodo replaces the todo as long as its stored completion state is still expected.
// It fails with storage.ErrNotFound if the todo is gone and storage.ErrConflict if its state moved.
func (s *Store) UpdateTodo(ctx context.Context, todo *models.Todo, expected models.Completion) error {
	item, err := todoItem(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(partitionKey) AND #completed = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#completed": "completed",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			if condCheckFailed.Item == nil {
				return fmt.Errorf("todo %s: %w", todo.TodoID, storage.ErrNotFound)
			}
			return fmt.Errorf("todo %s is no longer %s: %w", todo.TodoID, expected, storage.ErrConflict)
		}
		return fmt.Errorf("failed to update todo in DynamoDB: %w", err)
	}
	return nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if err := s.deleteExisting(ctx, userPK(userID), todoSK(todoID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("todo %s: %w", todoID, err)
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
