package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sqsEvent(bodies ...string) events.SQSEvent {
	var event events.SQSEvent
	for i, body := range bodies {
		event.Records = append(event.Records, events.SQSMessage{MessageId: string(rune('a' + i)), Body: body})
	}
	return event
}

func TestWorkerHandleRequest(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Runs Each Job", func(t *testing.T) {
		runner := mocks.NewRunner(t)
		runner.On("RunScheduledPass", mock.Anything, models.Daily, "2026-10-16").
			Return(&rewards.PassResult{Repeat: models.Daily, Period: "2026-10-16", Claimed: true}, nil).Once()
		runner.On("RunScheduledPass", mock.Anything, models.Weekly, "2026-W42").
			Return(&rewards.PassResult{Repeat: models.Weekly, Period: "2026-W42"}, nil).Once()

		h := &workerHandler{runner: runner, logger: logger}
		err := h.HandleRequest(ctx, sqsEvent(
			`{"repeat":"daily","period":"2026-10-16"}`,
			`not a job`,
			`{"repeat":"weekly","period":"2026-W42"}`,
		))

		assert.NoError(t, err)
	})

	t.Run("Pass Error Retries Batch", func(t *testing.T) {
		runner := mocks.NewRunner(t)
		runner.On("RunScheduledPass", mock.Anything, models.Monthly, "2026-10").
			Return(nil, errors.New("storage unavailable")).Once()

		h := &workerHandler{runner: runner, logger: logger}
		err := h.HandleRequest(ctx, sqsEvent(`{"repeat":"monthly","period":"2026-10"}`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "monthly pass for 2026-10")
	})
}
