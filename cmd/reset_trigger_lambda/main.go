package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/allowance-ledger/pkg/config"
	"github.com/chris/allowance-ledger/pkg/logging"
	"github.com/chris/allowance-ledger/pkg/scheduler"
)

// triggerHandler enqueues one reset job per recurrence class due at the event time.
type triggerHandler struct {
	queue   scheduler.JobQueue
	trigger scheduler.Trigger
	logger  *slog.Logger
	now     func() time.Time
}

// HandleRequest is triggered by an EventBridge schedule.
func (h *triggerHandler) HandleRequest(ctx context.Context, event events.CloudWatchEvent) error {
	at := event.Time
	if at.IsZero() {
		at = h.now()
	}

	jobs, err := scheduler.EnqueueDue(ctx, h.queue, h.trigger, at)
	for _, job := range jobs {
		h.logger.Info("enqueued reset job", "repeat", job.Repeat, "period", job.Period)
	}
	if err != nil {
		h.logger.Error("failed to enqueue reset jobs", "error", err)
		return err
	}
	if len(jobs) == 0 {
		h.logger.Debug("no resets due", "at", at)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.QueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	trigger, err := scheduler.NewTrigger(cfg.ResetTime, cfg.ResetWindow, cfg.ResetLocation)
	if err != nil {
		log.Fatalf("invalid reset trigger: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	h := &triggerHandler{
		queue:   scheduler.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.QueueURL),
		trigger: trigger,
		logger:  logger,
		now:     time.Now,
	}
	lambda.Start(h.HandleRequest)
}
