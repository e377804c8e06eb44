package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/allowance-ledger/pkg/handlers"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/scheduler"
	"github.com/chris/allowance-ledger/pkg/storage/memory"
	"github.com/chris/allowance-ledger/pkg/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cronFunc func(ctx context.Context, now time.Time) (*scheduler.CronResult, error)

func (f cronFunc) RunDue(ctx context.Context, now time.Time) (*scheduler.CronResult, error) {
	return f(ctx, now)
}

type api struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T, cron cronFunc) *api {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	deps := handlers.Deps{
		Service: rewards.NewService(store, logger),
		Catalog: store,
		Logger:  logger,
	}
	if cron != nil {
		deps.Cron = cron
	}
	return &api{t: t, router: handlers.NewRouter(deps)}
}

func (a *api) do(method, target, userID, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	a := newAPI(t, nil)
	rr := a.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRequiresUser(t *testing.T) {
	a := newAPI(t, nil)

	rr := a.do(http.MethodGet, "/balance", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"userId is required"}`, rr.Body.String())

	rr = a.do(http.MethodGet, "/balance?userId=kid-1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	a := newAPI(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", middleware.UserIDHeader)
	rr := httptest.NewRecorder()

	a.router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestTodoRewardFlow(t *testing.T) {
	a := newAPI(t, nil)
	const kid = "kid-1"

	rr := a.do(http.MethodPost, "/accounts", "", `{"userId":"kid-1","username":"Sam"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = a.do(http.MethodPost, "/accounts", "", `{"userId":"kid-1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = a.do(http.MethodPost, "/todos", kid, `{"text":"Make the bed","money":2,"repeat":"daily"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	todo := decode[models.Todo](t, rr)
	assert.Equal(t, models.NotCompleted, todo.Completed)

	rr = a.do(http.MethodPut, "/todos/"+todo.TodoID, kid, `{"completed":"pending"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = a.do(http.MethodGet, "/pending", kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[rewards.PendingSummary](t, rr)
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "2.00", summary.Total.String())
	assert.Equal(t, todo.TodoID, summary.Entries[0].ReferenceID)

	rr = a.do(http.MethodPost, "/pending/"+summary.Entries[0].PendingID+"/approve", kid, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	approval := decode[rewards.ApprovalResult](t, rr)
	assert.Equal(t, "2.00", approval.Balance.String())

	rr = a.do(http.MethodPost, "/pending/"+summary.Entries[0].PendingID+"/approve", kid, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = a.do(http.MethodGet, "/todos/"+todo.TodoID, kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.Approved, decode[models.Todo](t, rr).Completed)

	rr = a.do(http.MethodGet, "/balance", kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"userId":"kid-1","balance":2.00}`, rr.Body.String())

	rr = a.do(http.MethodPut, "/balance", kid, `{"balance":10,"note":"birthday"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	entry := decode[models.BalanceLog](t, rr)
	assert.Equal(t, "8.00", entry.Amount.String())
	assert.Equal(t, models.SourceManualEdit, entry.Source)

	rr = a.do(http.MethodGet, "/logs", kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	logs := decode[[]models.BalanceLog](t, rr)
	require.Len(t, logs, 2)
	assert.Equal(t, models.SourceManualEdit, logs[0].Source)
	assert.Equal(t, models.SourcePendingApproval, logs[1].Source)

	rr = a.do(http.MethodGet, "/logs?limit=1", kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.BalanceLog](t, rr), 1)

	rr = a.do(http.MethodGet, "/logs?limit=many", kid, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(http.MethodDelete, "/todos/"+todo.TodoID, kid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = a.do(http.MethodGet, "/todos", kid, "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestPendingRoutes(t *testing.T) {
	a := newAPI(t, nil)
	const kid = "kid-1"

	rr := a.do(http.MethodPost, "/pending", kid, `{"amount":0.75,"reason":"Shared toys","type":"activity","referenceId":"a1"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decode[models.PendingEntry](t, rr)
	assert.Equal(t, models.PendingFromActivity, first.Type)

	rr = a.do(http.MethodPost, "/pending", kid, `{"amount":0.25,"reason":"Helped cook","type":"behavior","referenceId":"b1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	second := decode[models.PendingEntry](t, rr)

	rr = a.do(http.MethodPost, "/pending", kid, `{"amount":-1,"reason":"x","referenceId":"a1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(http.MethodDelete, "/pending/"+second.PendingID, kid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = a.do(http.MethodPost, "/pending/approve-all", kid, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	result := decode[rewards.ApprovalResult](t, rr)
	assert.Equal(t, 1, result.Approved)
	assert.Equal(t, "0.75", result.Balance.String())

	rr = a.do(http.MethodGet, "/pending", kid, "")
	assert.JSONEq(t, `{"entries":[],"total":0.00}`, rr.Body.String())
}

func TestMaintenanceRoutes(t *testing.T) {
	a := newAPI(t, nil)

	rr := a.do(http.MethodGet, "/todos/reset", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(http.MethodGet, "/todos/reset?resetType=daily", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"resetType":"daily","count":0,"todos":[]}`, rr.Body.String())

	rr = a.do(http.MethodPost, "/todos/reset", "", `{"resetType":"yearly"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "valid resetType is required")

	rr = a.do(http.MethodPost, "/todos/auto-approve", "", `{"resetType":"weekly"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = a.do(http.MethodPost, "/todos/apply-penalty", "kid-1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"penaltyApplied":false`)

	rr = a.do(http.MethodGet, "/cron/todo-reset", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCronRoute(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		a := newAPI(t, func(ctx context.Context, now time.Time) (*scheduler.CronResult, error) {
			return &scheduler.CronResult{Message: "No resets performed - not the scheduled time", CurrentTime: now}, nil
		})

		rr := a.do(http.MethodGet, "/cron/todo-reset", "", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "not the scheduled time")
	})

	t.Run("Failure", func(t *testing.T) {
		a := newAPI(t, func(ctx context.Context, now time.Time) (*scheduler.CronResult, error) {
			return nil, errors.New("weekly pass: storage unavailable")
		})

		rr := a.do(http.MethodGet, "/cron/todo-reset", "", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Failed to perform scheduled todo reset","details":"weekly pass: storage unavailable"}`, rr.Body.String())
	})
}

func TestCatalogRoutes(t *testing.T) {
	a := newAPI(t, nil)
	const kid = "kid-1"

	rr := a.do(http.MethodPost, "/behaviors", kid, `{"behaviorName":"Kindness"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	behavior := decode[models.Behavior](t, rr)

	rr = a.do(http.MethodPost, "/behaviors/"+behavior.BehaviorID+"/activities", kid, `{"activityName":"Shared toys","money":0.5}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	activity := decode[models.Activity](t, rr)

	rr = a.do(http.MethodGet, "/activities/"+activity.ActivityID, "kid-2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = a.do(http.MethodDelete, "/behaviors/"+behavior.BehaviorID, kid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = a.do(http.MethodGet, "/activities/"+activity.ActivityID, kid, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventRoutes(t *testing.T) {
	a := newAPI(t, nil)
	const kid = "kid-1"

	rr := a.do(http.MethodPost, "/events", kid, `{"title":"Birthday","amount":5,"type":"earn"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	event := decode[models.Event](t, rr)

	rr = a.do(http.MethodGet, "/events", kid, "")
	require.Equal(t, http.StatusOK, rr.Code)
	events := decode[[]models.Event](t, rr)
	require.Len(t, events, 1)
	assert.Equal(t, "Birthday", events[0].Title)

	rr = a.do(http.MethodGet, "/events/"+event.EventID, "kid-2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = a.do(http.MethodPut, "/events/"+event.EventID, kid, `{"amount":7.5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "7.50", decode[models.Event](t, rr).Amount.StringFixed(2))

	rr = a.do(http.MethodDelete, "/events/"+event.EventID, kid, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = a.do(http.MethodGet, "/events", kid, "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestWebsocketRouteRequiresUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	router := handlers.NewRouter(handlers.Deps{
		Service: rewards.NewService(store, logger),
		Catalog: store,
		Hub:     websockets.NewHub(logger),
		Logger:  logger,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"userId is required"}`, rr.Body.String())
}
