package reconcile_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/allowance-ledger/pkg/handlers/reconcile"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	penalty func(userID string, amount *models.Money) (*rewards.PenaltyResult, error)
	approve func(resetType string) (*rewards.AutoApproveResult, error)
	reset   func(resetType string) (*rewards.ResetResult, error)
	preview func(resetType string) ([]models.Todo, error)
}

func (f *fakeService) ApplyPenalty(_ context.Context, userID string, amount *models.Money) (*rewards.PenaltyResult, error) {
	return f.penalty(userID, amount)
}

func (f *fakeService) AutoApprove(_ context.Context, resetType string) (*rewards.AutoApproveResult, error) {
	return f.approve(resetType)
}

func (f *fakeService) Reset(_ context.Context, resetType string) (*rewards.ResetResult, error) {
	return f.reset(resetType)
}

func (f *fakeService) PreviewReset(_ context.Context, resetType string) ([]models.Todo, error) {
	return f.preview(resetType)
}

type cronFunc func(ctx context.Context, now time.Time) (*scheduler.CronResult, error)

func (f cronFunc) RunDue(ctx context.Context, now time.Time) (*scheduler.CronResult, error) {
	return f(ctx, now)
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestApplyPenalty(t *testing.T) {
	t.Run("Empty Body Uses Settings", func(t *testing.T) {
		svc := &fakeService{penalty: func(userID string, amount *models.Money) (*rewards.PenaltyResult, error) {
			assert.Equal(t, "kid-1", userID)
			assert.Nil(t, amount)
			return &rewards.PenaltyResult{Message: "No uncompleted daily todos, no penalty applied"}, nil
		}}
		h := reconcile.NewReconcileHandler(svc, nil)

		req := withUser(httptest.NewRequest(http.MethodPost, "/todos/apply-penalty", nil), "kid-1")
		rr := httptest.NewRecorder()
		h.ApplyPenalty(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"penaltyApplied":false`)
	})

	t.Run("Explicit Amount", func(t *testing.T) {
		svc := &fakeService{penalty: func(_ string, amount *models.Money) (*rewards.PenaltyResult, error) {
			require.NotNil(t, amount)
			assert.Equal(t, "0.75", amount.StringFixed(2))
			return &rewards.PenaltyResult{PenaltyApplied: true, UncompletedCount: 2, PenaltyAmount: *amount}, nil
		}}
		h := reconcile.NewReconcileHandler(svc, nil)

		req := withUser(httptest.NewRequest(http.MethodPost, "/todos/apply-penalty", strings.NewReader(`{"penaltyAmount":0.75}`)), "kid-1")
		rr := httptest.NewRecorder()
		h.ApplyPenalty(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"uncompletedCount":2`)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		h := reconcile.NewReconcileHandler(&fakeService{}, nil)

		req := withUser(httptest.NewRequest(http.MethodPost, "/todos/apply-penalty", strings.NewReader(`{"penaltyAmount":`)), "kid-1")
		rr := httptest.NewRecorder()
		h.ApplyPenalty(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAutoApproveAndReset(t *testing.T) {
	svc := &fakeService{
		approve: func(resetType string) (*rewards.AutoApproveResult, error) {
			assert.Equal(t, "weekly", resetType)
			return &rewards.AutoApproveResult{Repeat: models.Weekly, ApprovedCount: 1}, nil
		},
		reset: func(resetType string) (*rewards.ResetResult, error) {
			if resetType != "daily" {
				return nil, &rewards.Error{Kind: rewards.ErrValidation, Op: "reset", Msg: "valid resetType is required (daily, weekly, monthly)"}
			}
			return &rewards.ResetResult{Repeat: models.Daily, ResetCount: 3}, nil
		},
	}
	h := reconcile.NewReconcileHandler(svc, nil)

	t.Run("Auto Approve", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.AutoApprove(rr, httptest.NewRequest(http.MethodPost, "/todos/auto-approve", strings.NewReader(`{"resetType":"weekly"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"approvedCount":1`)
	})

	t.Run("Reset", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Reset(rr, httptest.NewRequest(http.MethodPost, "/todos/reset", strings.NewReader(`{"resetType":"daily"}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"resetCount":3`)
	})

	t.Run("Reset Invalid Type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Reset(rr, httptest.NewRequest(http.MethodPost, "/todos/reset", strings.NewReader(`{"resetType":"hourly"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPreviewReset(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		svc := &fakeService{preview: func(string) ([]models.Todo, error) { return nil, nil }}
		h := reconcile.NewReconcileHandler(svc, nil)

		rr := httptest.NewRecorder()
		h.PreviewReset(rr, httptest.NewRequest(http.MethodGet, "/todos/reset?resetType=monthly", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"resetType":"monthly","count":0,"todos":[]}`, rr.Body.String())
	})

	t.Run("Missing Type", func(t *testing.T) {
		h := reconcile.NewReconcileHandler(&fakeService{}, nil)

		rr := httptest.NewRecorder()
		h.PreviewReset(rr, httptest.NewRequest(http.MethodGet, "/todos/reset", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRunCron(t *testing.T) {
	now := time.Date(2026, 3, 2, 21, 12, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		cron := cronFunc(func(_ context.Context, got time.Time) (*scheduler.CronResult, error) {
			assert.True(t, now.Equal(got))
			return &scheduler.CronResult{Message: "Scheduled todo reset completed", CurrentTime: got}, nil
		})
		h := reconcile.NewReconcileHandler(&fakeService{}, cron)
		h.Now = func() time.Time { return now }

		rr := httptest.NewRecorder()
		h.RunCron(rr, httptest.NewRequest(http.MethodGet, "/cron/todo-reset", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Scheduled todo reset completed")
	})

	t.Run("Failure", func(t *testing.T) {
		cron := cronFunc(func(context.Context, time.Time) (*scheduler.CronResult, error) {
			return nil, errors.New("table unavailable")
		})
		h := reconcile.NewReconcileHandler(&fakeService{}, cron)

		rr := httptest.NewRecorder()
		h.RunCron(rr, httptest.NewRequest(http.MethodGet, "/cron/todo-reset", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to perform scheduled todo reset")
	})
}
