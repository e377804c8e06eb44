// Package scheduler decides when the daily, weekly and monthly passes are due and runs or
// enqueues them.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
)

// Runner runs one scheduled pass. *rewards.Service implements it.
type Runner interface {
	RunScheduledPass(ctx context.Context, repeat models.Repeat, period string) (*rewards.PassResult, error)
}

var _ Runner = (*rewards.Service)(nil)

// CronResult reports one trigger evaluation.
type CronResult struct {
	Message     string                `json:"message"`
	CurrentTime time.Time             `json:"currentTime"`
	Results     []*rewards.PassResult `json:"results,omitempty"`
	Next        *NextResets           `json:"next,omitempty"`
}

// Scheduler runs due passes in process.
type Scheduler struct {
	Runner   Runner
	Trigger  Trigger
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// New creates a Scheduler that checks for due passes every interval.
func New(runner Runner, trigger Trigger, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Runner:   runner,
		Trigger:  trigger,
		Interval: interval,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Run checks for due passes on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Logger.Info("scheduler started", "interval", s.Interval.String(), "reset_time", s.Trigger.At.String())
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunDue(ctx, s.Now()); err != nil {
				s.Logger.Error("scheduled pass failed", "error", err)
			}
		}
	}
}

// RunDue runs the passes due at now, in order daily, weekly, monthly. A pass whose period was
// already claimed is reported with Claimed=false. A failing pass does not stop the others.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) (*CronResult, error) {
	result := &CronResult{CurrentTime: now}

	due := s.Trigger.Due(now)
	if len(due) == 0 {
		next := s.Trigger.Next(now)
		result.Message = "No resets performed - not the scheduled time"
		result.Next = &next
		return result, nil
	}

	var errs []error
	for _, d := range due {
		pass, err := s.Runner.RunScheduledPass(ctx, d.Repeat, d.Period)
		if err != nil {
			s.Logger.Error("failed to run scheduled pass", "repeat", d.Repeat, "period", d.Period, "error", err)
			errs = append(errs, fmt.Errorf("%s pass: %w", d.Repeat, err))
			continue
		}
		result.Results = append(result.Results, pass)
	}

	result.Message = "Todo reset completed"
	return result, errors.Join(errs...)
}

// EnqueueDue sends one ResetJob per class due at now and returns the jobs it sent.
func EnqueueDue(ctx context.Context, queue JobQueue, trigger Trigger, now time.Time) ([]ResetJob, error) {
	var sent []ResetJob
	var errs []error
	for _, d := range trigger.Due(now) {
		job := ResetJob{Repeat: d.Repeat, Period: d.Period}
		if err := queue.Enqueue(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("failed to enqueue %s reset for %s: %w", d.Repeat, d.Period, err))
			continue
		}
		sent = append(sent, job)
	}
	return sent, errors.Join(errs...)
}
