package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/allowance-ledger/pkg/config"
	"github.com/chris/allowance-ledger/pkg/handlers/websockets"
	"github.com/chris/allowance-ledger/pkg/logging"
	dydbstore "github.com/chris/allowance-ledger/pkg/storage/dynamodb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.TableName == "" {
		log.Fatal("DYNAMODB_TABLE_NAME environment variable not set")
	}

	store, err := dydbstore.Connect(context.Background(), cfg.TableName, cfg.DynamoDBEndpoint)
	if err != nil {
		log.Fatalf("unable to create DynamoDB store: %v", err)
	}

	lambda.Start(websockets.NewHandler(store, logger).Handle)
}
