package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/allowance-ledger/pkg/models"
)

// ResetJob asks a worker to run the scheduled pass of one recurrence class for one period.
type ResetJob struct {
	Repeat models.Repeat `json:"repeat"`
	Period string        `json:"period"`
}

// ParseResetJob decodes and validates a job body.
func ParseResetJob(body string) (ResetJob, error) {
	var job ResetJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return ResetJob{}, fmt.Errorf("failed to unmarshal reset job: %w", err)
	}
	if _, err := models.ParseResetType(string(job.Repeat)); err != nil {
		return ResetJob{}, err
	}
	if job.Period == "" {
		return ResetJob{}, fmt.Errorf("reset job for %s has no period", job.Repeat)
	}
	return job, nil
}

// JobQueue enqueues reset jobs for asynchronous processing.
type JobQueue interface {
	Enqueue(ctx context.Context, job ResetJob) error
}

// SQSAPI is the subset of the SQS client the queue uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSQueue implements JobQueue using AWS SQS.
type SQSQueue struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSQueue creates a new SQSQueue.
func NewSQSQueue(client SQSAPI, queueURL string) *SQSQueue {
	return &SQSQueue{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ JobQueue = (*SQSQueue)(nil)

// Enqueue sends the job to the queue. The recurrence class travels as a message attribute so
// consumers can filter without decoding the body.
func (q *SQSQueue) Enqueue(ctx context.Context, job ResetJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal reset job for SQS: %w", err)
	}

	_, err = q.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"repeat": {DataType: aws.String("String"), StringValue: aws.String(string(job.Repeat))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	return nil
}
