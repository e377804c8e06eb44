package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/allowance-ledger/pkg/config"
	"github.com/chris/allowance-ledger/pkg/logging"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler"
	dydbstore "github.com/chris/allowance-ledger/pkg/storage/dynamodb"
	"github.com/chris/allowance-ledger/pkg/websockets"
)

// workerHandler runs the scheduled pass named by each reset job.
type workerHandler struct {
	runner scheduler.Runner
	logger *slog.Logger
}

// HandleRequest processes SQS messages carrying reset jobs. The pass claims its period, so a
// redelivered job is a no-op.
func (h *workerHandler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		logger := h.logger.With("message_id", message.MessageId)

		job, err := scheduler.ParseResetJob(message.Body)
		if err != nil {
			// Malformed jobs are dropped, not retried.
			logger.Error("discarding malformed reset job", "error", err)
			continue
		}

		result, err := h.runner.RunScheduledPass(ctx, job.Repeat, job.Period)
		if err != nil {
			logger.Error("failed to run scheduled pass", "repeat", job.Repeat, "period", job.Period, "error", err)
			return fmt.Errorf("%s pass for %s: %w", job.Repeat, job.Period, err)
		}
		if !result.Claimed {
			logger.Info("period already processed", "repeat", job.Repeat, "period", job.Period)
			continue
		}
		logger.Info("scheduled pass completed", "repeat", job.Repeat, "period", job.Period)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.TableName == "" {
		log.Fatal("DYNAMODB_TABLE_NAME environment variable not set")
	}

	ctx := context.Background()
	store, err := dydbstore.Connect(ctx, cfg.TableName, cfg.DynamoDBEndpoint)
	if err != nil {
		log.Fatalf("unable to create DynamoDB store: %v", err)
	}

	var publisher websockets.Publisher = websockets.NoOpPublisher{}
	if cfg.WebSocketEndpoint != "" {
		publisher, err = websockets.NewPublisher(ctx, store, cfg.WebSocketEndpoint, logger)
		if err != nil {
			log.Fatalf("unable to create websocket publisher: %v", err)
		}
	}

	service := rewards.NewService(store, logger)
	service.OnBalanceChange = func(ctx context.Context, entry *models.BalanceLog) {
		websockets.PublishBalanceChange(ctx, publisher, logger, entry)
	}

	h := &workerHandler{runner: service, logger: logger}
	lambda.Start(h.HandleRequest)
}
