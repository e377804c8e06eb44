// Package memory provides an in-memory Storage for local development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/google/uuid"
)

type userKey struct {
	UserID string
	ID     string
}

// Store keeps everything in maps guarded by one mutex. A balance change holds the lock for its
// whole read-modify-write, so it needs no version retries.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]models.Account
	balances    map[string]models.Balance
	logs        map[string][]models.BalanceLog
	todos       map[userKey]models.Todo
	pending     map[userKey]models.PendingEntry
	behaviors   map[userKey]models.Behavior
	activities  map[string]models.Activity
	events      map[string]models.Event
	runs        map[models.Repeat]models.ScheduleRun
	connections map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:    make(map[string]models.Account),
		balances:    make(map[string]models.Balance),
		logs:        make(map[string][]models.BalanceLog),
		todos:       make(map[userKey]models.Todo),
		pending:     make(map[userKey]models.PendingEntry),
		behaviors:   make(map[userKey]models.Behavior),
		activities:  make(map[string]models.Activity),
		events:      make(map[string]models.Event),
		runs:        make(map[models.Repeat]models.ScheduleRun),
		connections: make(map[string]string),
	}
}

var _ storage.Storage = (*Store)(nil)

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UserID]; ok {
		return fmt.Errorf("account for user ID %s already exists: %w", account.UserID, storage.ErrConflict)
	}
	s.accounts[account.UserID] = *account
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account for user ID %s: %w", userID, storage.ErrNotFound)
	}
	return &account, nil
}

func (s *Store) UpdateSettings(_ context.Context, userID string, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return fmt.Errorf("account for user ID %s: %w", userID, storage.ErrNotFound)
	}
	account.Settings = settings
	s.accounts[userID] = account
	return nil
}

func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].UserID < accounts[j].UserID })
	return accounts, nil
}

// =============================================================================
// BALANCE
// =============================================================================

func (s *Store) GetBalance(_ context.Context, userID string) (*models.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance := s.balanceLocked(userID)
	return &balance, nil
}

func (s *Store) balanceLocked(userID string) models.Balance {
	if b, ok := s.balances[userID]; ok {
		return b
	}
	return models.Balance{UserID: userID, Balance: models.ZeroMoney}
}

func (s *Store) ApplyBalanceChange(_ context.Context, userID string, change storage.BalanceChange) (*models.BalanceLog, error) {
	if len(change.Consume) > storage.MaxConsumePerChange {
		return nil, fmt.Errorf("cannot consume %d pending entries in one change, the limit is %d", len(change.Consume), storage.MaxConsumePerChange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every precondition first so the change is all-or-nothing.
	for _, p := range change.Consume {
		if _, ok := s.pending[userKey{p.UserID, p.PendingID}]; !ok {
			return nil, fmt.Errorf("pending entry %s: %w", p.PendingID, storage.ErrNotFound)
		}
	}
	if w := change.Todo; w != nil {
		stored, ok := s.todos[userKey{w.Todo.UserID, w.Todo.TodoID}]
		if !ok || stored.Completed != w.Expected {
			return nil, fmt.Errorf("todo %s is no longer %s: %w", w.Todo.TodoID, w.Expected, storage.ErrConflict)
		}
	}

	current := s.balanceLocked(userID)
	entry := change.Log
	entry.UserID = userID
	if entry.LogID == "" {
		entry.LogID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.BalanceBefore = current.Balance
	entry.BalanceAfter = change.Apply(current.Balance)
	entry.Amount = entry.BalanceAfter.Minus(entry.BalanceBefore)

	s.balances[userID] = models.Balance{UserID: userID, Balance: entry.BalanceAfter, Version: current.Version + 1}
	s.logs[userID] = append(s.logs[userID], entry)
	for _, p := range change.Consume {
		delete(s.pending, userKey{p.UserID, p.PendingID})
	}
	if w := change.Todo; w != nil {
		k := userKey{w.Todo.UserID, w.Todo.TodoID}
		if w.Delete {
			delete(s.todos, k)
		} else {
			s.todos[k] = w.Todo
		}
	}
	return &entry, nil
}

func (s *Store) ListBalanceLogs(_ context.Context, userID string, limit int) ([]models.BalanceLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := slices.Clone(s.logs[userID])
	slices.Reverse(logs)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// =============================================================================
// TODOS
// =============================================================================

func (s *Store) CreateTodo(_ context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{todo.UserID, todo.TodoID}
	if _, ok := s.todos[k]; ok {
		return fmt.Errorf("todo %s already exists: %w", todo.TodoID, storage.ErrConflict)
	}
	s.todos[k] = *todo
	return nil
}

func (s *Store) GetTodo(_ context.Context, userID, todoID string) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[userKey{userID, todoID}]
	if !ok {
		return nil, fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
	}
	return &todo, nil
}

func (s *Store) ListTodos(_ context.Context, userID string) ([]models.Todo, error) {
	return s.filterTodos(func(t models.Todo) bool { return t.UserID == userID }), nil
}

func (s *Store) ListTodosByState(_ context.Context, repeat models.Repeat, completed models.Completion) ([]models.Todo, error) {
	return s.filterTodos(func(t models.Todo) bool { return t.Repeat == repeat && t.Completed == completed }), nil
}

func (s *Store) filterTodos(keep func(models.Todo) bool) []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var todos []models.Todo
	for _, t := range s.todos {
		if keep(t) {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		}
		return todos[i].TodoID < todos[j].TodoID
	})
	return todos
}

func (s *Store) UpdateTodo(_ context.Context, todo *models.Todo, expected models.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{todo.UserID, todo.TodoID}
	stored, ok := s.todos[k]
	if !ok {
		return fmt.Errorf("todo %s: %w", todo.TodoID, storage.ErrNotFound)
	}
	if stored.Completed != expected {
		return fmt.Errorf("todo %s is no longer %s: %w", todo.TodoID, expected, storage.ErrConflict)
	}
	s.todos[k] = *todo
	return nil
}

func (s *Store) DeleteTodo(_ context.Context, userID, todoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{userID, todoID}
	if _, ok := s.todos[k]; !ok {
		return fmt.Errorf("todo %s: %w", todoID, storage.ErrNotFound)
	}
	delete(s.todos, k)
	return nil
}

// =============================================================================
// PENDING
// =============================================================================

func (s *Store) CreatePending(_ context.Context, entry *models.PendingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{entry.UserID, entry.PendingID}
	if _, ok := s.pending[k]; ok {
		return fmt.Errorf("pending entry %s already exists: %w", entry.PendingID, storage.ErrConflict)
	}
	s.pending[k] = *entry
	return nil
}

func (s *Store) GetPending(_ context.Context, userID, pendingID string) (*models.PendingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.pending[userKey{userID, pendingID}]
	if !ok {
		return nil, fmt.Errorf("pending entry %s: %w", pendingID, storage.ErrNotFound)
	}
	return &entry, nil
}

func (s *Store) ListPending(_ context.Context, userID string) ([]models.PendingEntry, error) {
	return s.filterPending(func(p models.PendingEntry) bool { return p.UserID == userID }), nil
}

func (s *Store) ListPendingByReference(_ context.Context, userID, referenceID string) ([]models.PendingEntry, error) {
	return s.filterPending(func(p models.PendingEntry) bool {
		return p.UserID == userID && p.ReferenceID == referenceID
	}), nil
}

func (s *Store) filterPending(keep func(models.PendingEntry) bool) []models.PendingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []models.PendingEntry
	for _, p := range s.pending {
		if keep(p) {
			entries = append(entries, p)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].PendingID < entries[j].PendingID
	})
	return entries
}

func (s *Store) DeletePending(_ context.Context, userID, pendingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{userID, pendingID}
	if _, ok := s.pending[k]; !ok {
		return fmt.Errorf("pending entry %s: %w", pendingID, storage.ErrNotFound)
	}
	delete(s.pending, k)
	return nil
}

// =============================================================================
// SCHEDULE
// =============================================================================

func (s *Store) ClaimScheduleRun(_ context.Context, run models.ScheduleRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.runs[run.Repeat]; ok && !last.Claimable(run.Period, run.ClaimedAt) {
		return fmt.Errorf("%s pass for %s: %w", run.Repeat, run.Period, storage.ErrAlreadyClaimed)
	}
	s.runs[run.Repeat] = run
	return nil
}

func (s *Store) SaveScheduleRun(_ context.Context, run models.ScheduleRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.Repeat] = run
	return nil
}

func (s *Store) GetScheduleRun(_ context.Context, repeat models.Repeat) (*models.ScheduleRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[repeat]
	if !ok {
		return nil, fmt.Errorf("%s schedule run: %w", repeat, storage.ErrNotFound)
	}
	return &run, nil
}

// =============================================================================
// CATALOG
// =============================================================================

func (s *Store) CreateBehavior(_ context.Context, behavior *models.Behavior) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{behavior.UserID, behavior.BehaviorID}
	if _, ok := s.behaviors[k]; ok {
		return fmt.Errorf("behavior %s already exists: %w", behavior.BehaviorID, storage.ErrConflict)
	}
	s.behaviors[k] = *behavior
	return nil
}

func (s *Store) GetBehavior(_ context.Context, userID, behaviorID string) (*models.Behavior, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	behavior, ok := s.behaviors[userKey{userID, behaviorID}]
	if !ok {
		return nil, fmt.Errorf("behavior %s: %w", behaviorID, storage.ErrNotFound)
	}
	return &behavior, nil
}

func (s *Store) ListBehaviors(_ context.Context, userID string) ([]models.Behavior, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var behaviors []models.Behavior
	for _, b := range s.behaviors {
		if b.UserID == userID {
			behaviors = append(behaviors, b)
		}
	}
	sort.Slice(behaviors, func(i, j int) bool { return behaviors[i].BehaviorID < behaviors[j].BehaviorID })
	return behaviors, nil
}

func (s *Store) UpdateBehavior(_ context.Context, behavior *models.Behavior) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{behavior.UserID, behavior.BehaviorID}
	if _, ok := s.behaviors[k]; !ok {
		return fmt.Errorf("behavior %s: %w", behavior.BehaviorID, storage.ErrNotFound)
	}
	s.behaviors[k] = *behavior
	return nil
}

func (s *Store) DeleteBehavior(_ context.Context, userID, behaviorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userKey{userID, behaviorID}
	if _, ok := s.behaviors[k]; !ok {
		return fmt.Errorf("behavior %s: %w", behaviorID, storage.ErrNotFound)
	}
	for id, a := range s.activities {
		if a.UserID == userID && a.BehaviorID == behaviorID {
			delete(s.activities, id)
		}
	}
	delete(s.behaviors, k)
	return nil
}

func (s *Store) CreateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.behaviors[userKey{activity.UserID, activity.BehaviorID}]; !ok {
		return fmt.Errorf("behavior %s: %w", activity.BehaviorID, storage.ErrNotFound)
	}
	if _, ok := s.activities[activity.ActivityID]; ok {
		return fmt.Errorf("activity %s already exists: %w", activity.ActivityID, storage.ErrConflict)
	}
	s.activities[activity.ActivityID] = *activity
	return nil
}

func (s *Store) GetActivity(_ context.Context, activityID string) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activity, ok := s.activities[activityID]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", activityID, storage.ErrNotFound)
	}
	return &activity, nil
}

func (s *Store) ListActivities(_ context.Context, userID, behaviorID string) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var activities []models.Activity
	for _, a := range s.activities {
		if a.UserID == userID && a.BehaviorID == behaviorID {
			activities = append(activities, a)
		}
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ActivityID < activities[j].ActivityID })
	return activities, nil
}

func (s *Store) UpdateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.activities[activity.ActivityID]
	if !ok || stored.UserID != activity.UserID || stored.BehaviorID != activity.BehaviorID {
		return fmt.Errorf("activity %s: %w", activity.ActivityID, storage.ErrNotFound)
	}
	s.activities[activity.ActivityID] = *activity
	return nil
}

func (s *Store) DeleteActivity(_ context.Context, userID, behaviorID, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.activities[activityID]
	if !ok || stored.UserID != userID || stored.BehaviorID != behaviorID {
		return fmt.Errorf("activity %s: %w", activityID, storage.ErrNotFound)
	}
	delete(s.activities, activityID)
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) CreateEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.EventID]; ok {
		return fmt.Errorf("event %s already exists: %w", event.EventID, storage.ErrConflict)
	}
	s.events[event.EventID] = *event
	return nil
}

func (s *Store) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return &event, nil
}

func (s *Store) ListEvents(_ context.Context, userID string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []models.Event
	for _, e := range s.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventID < events[j].EventID })
	return events, nil
}

func (s *Store) UpdateEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[event.EventID]
	if !ok || stored.UserID != event.UserID {
		return fmt.Errorf("event %s: %w", event.EventID, storage.ErrNotFound)
	}
	s.events[event.EventID] = *event
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, userID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[eventID]
	if !ok || stored.UserID != userID {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	delete(s.events, eventID)
	return nil
}

// =============================================================================
// WEBSOCKET CONNECTIONS
// =============================================================================

func (s *Store) AddConnection(_ context.Context, connectionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = userID
	return nil
}

func (s *Store) RemoveConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetUserConnections(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0)
	for id, owner := range s.connections {
		if owner == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
