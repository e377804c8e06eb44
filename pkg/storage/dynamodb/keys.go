package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/allowance-ledger/pkg/models"
)

// Table layout. Every item lives under partitionKey/sortKey; gsi1 serves listings across users
// and gsi2 serves lookups by a non-key identifier.
const (
	attrPK     = "partitionKey"
	attrSK     = "sortKey"
	attrGSI1PK = "gsi1pk"
	attrGSI1SK = "gsi1sk"
	attrGSI2PK = "gsi2pk"
	attrGSI2SK = "gsi2sk"

	gsi1Index = "gsi1"
	gsi2Index = "gsi2"

	skMetadata    = "METADATA"
	skBalance     = "ACCOUNT#balance"
	skScheduleRun = "RUN"

	prefixTodo       = "TODO#"
	prefixPending    = "PENDING#"
	prefixBalanceLog = "BALANCELOG#"
	prefixBehavior   = "BEHAVIOR#"
	prefixEvent      = "EVENT#"
	prefixConnection = "CONN#"

	accountsGSI1PK = "ACCOUNTS"
	connectionsPK  = "WSCONN"
)

// logTimeLayout is fixed-width so that sort keys order chronologically.
const logTimeLayout = "2006-01-02T15:04:05.000000000Z"

func userPK(userID string) string { return "USER#" + userID }

func todoSK(todoID string) string { return prefixTodo + todoID }

func todoStateGSI1PK(repeat models.Repeat, completed models.Completion) string {
	return fmt.Sprintf("TODO#%s#%s", repeat, completed)
}

func todoGSI1SK(userID, todoID string) string { return fmt.Sprintf("USER#%s#TODO#%s", userID, todoID) }

func pendingSK(pendingID string) string { return prefixPending + pendingID }

func balanceLogSK(ts time.Time, logID string) string {
	return prefixBalanceLog + ts.UTC().Format(logTimeLayout) + "#" + logID
}

func behaviorSK(behaviorID string) string { return prefixBehavior + behaviorID }

func activityPrefix(behaviorID string) string { return behaviorSK(behaviorID) + "#ACTIVITY#" }

func activitySK(behaviorID, activityID string) string { return activityPrefix(behaviorID) + activityID }

func activityGSI2PK(activityID string) string { return "ACTIVITY#" + activityID }

func eventSK(eventID string) string { return prefixEvent + eventID }

func schedulePK(repeat models.Repeat) string { return "SCHEDULE#" + string(repeat) }

func connectionSK(connectionID string) string { return prefixConnection + connectionID }

func connectionGSI2PK(userID string) string { return "WSUSER#" + userID }

func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// marshalItem marshals v and adds the given key attributes to it.
func marshalItem(v any, keys map[string]string) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, err
	}
	for name, value := range keys {
		item[name] = &types.AttributeValueMemberS{Value: value}
	}
	return item, nil
}

func todoItem(todo *models.Todo) (map[string]types.AttributeValue, error) {
	return marshalItem(todo, map[string]string{
		attrPK:     userPK(todo.UserID),
		attrSK:     todoSK(todo.TodoID),
		attrGSI1PK: todoStateGSI1PK(todo.Repeat, todo.Completed),
		attrGSI1SK: todoGSI1SK(todo.UserID, todo.TodoID),
	})
}

func pendingItem(entry *models.PendingEntry) (map[string]types.AttributeValue, error) {
	return marshalItem(entry, map[string]string{
		attrPK: userPK(entry.UserID),
		attrSK: pendingSK(entry.PendingID),
	})
}
