package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Completion is the tri-state completion of a todo.
type Completion string

const (
	// NotCompleted means the todo has not been done in the current period.
	NotCompleted Completion = "false"
	// PendingApproval means the todo was done and awaits a parent's approval.
	PendingApproval Completion = "pending"
	// Approved means the reward for the todo has been realized.
	Approved Completion = "true"
)

// ParseCompletion validates a completion state.
func ParseCompletion(s string) (Completion, error) {
	switch c := Completion(s); c {
	case NotCompleted, PendingApproval, Approved:
		return c, nil
	}
	return "", fmt.Errorf("invalid completion state %q", s)
}

// Next returns the state that follows c when a parent cycles it manually.
func (c Completion) Next() Completion {
	switch c {
	case NotCompleted:
		return PendingApproval
	case PendingApproval:
		return Approved
	default:
		return NotCompleted
	}
}

// UnmarshalJSON rejects unknown states and accepts JSON booleans for false/true.
func (c *Completion) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*c = Approved
		} else {
			*c = NotCompleted
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid completion state: %w", err)
	}
	parsed, err := ParseCompletion(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Repeat is the recurrence class of a todo.
type Repeat string

const (
	Once    Repeat = "once"
	Daily   Repeat = "daily"
	Weekly  Repeat = "weekly"
	Monthly Repeat = "monthly"
)

// ParseRepeat validates any recurrence class, including once.
func ParseRepeat(s string) (Repeat, error) {
	switch r := Repeat(s); r {
	case Once, Daily, Weekly, Monthly:
		return r, nil
	}
	return "", fmt.Errorf("invalid repeat %q", s)
}

// ParseResetType validates a recurrence class that can be reset on a schedule.
func ParseResetType(s string) (Repeat, error) {
	switch r := Repeat(s); r {
	case Daily, Weekly, Monthly:
		return r, nil
	}
	return "", fmt.Errorf("valid resetType is required (daily, weekly, monthly), got %q", s)
}

// Settings are the reward settings a parent configures for an account.
type Settings struct {
	ResetTime             string `json:"resetTime" dynamodbav:"resetTime"`
	CompleteAward         Money  `json:"completeAward" dynamodbav:"completeAward"`
	CompleteAwardEnabled  bool   `json:"completeAwardEnabled" dynamodbav:"completeAwardEnabled"`
	UncompleteFine        Money  `json:"uncompleteFine" dynamodbav:"uncompleteFine"`
	UncompleteFineEnabled bool   `json:"uncompleteFineEnabled" dynamodbav:"uncompleteFineEnabled"`
}

// DefaultSettings returns the settings a new account starts with.
func DefaultSettings() Settings {
	return Settings{
		ResetTime:      "21:10",
		CompleteAward:  MustParseMoney("1.00"),
		UncompleteFine: MustParseMoney("0.50"),
	}
}

// Account is a user account with its reward settings.
type Account struct {
	UserID    string    `json:"userId" dynamodbav:"userId"`
	Username  string    `json:"username" dynamodbav:"username"`
	Settings  Settings  `json:"settings" dynamodbav:"settings"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// Balance is a user's current balance. Version guards concurrent updates.
type Balance struct {
	UserID  string `json:"userId" dynamodbav:"userId"`
	Balance Money  `json:"balance" dynamodbav:"balance"`
	Version int64  `json:"version" dynamodbav:"version"`
}

// Todo is a one-off or recurring task with a deferred reward.
type Todo struct {
	TodoID         string     `json:"todoId" dynamodbav:"todoId"`
	UserID         string     `json:"userId" dynamodbav:"userId"`
	Text           string     `json:"text" dynamodbav:"text"`
	Completed      Completion `json:"completed" dynamodbav:"completed"`
	Money          Money      `json:"money" dynamodbav:"money"`
	Repeat         Repeat     `json:"repeat" dynamodbav:"repeat"`
	CreatedAt      time.Time  `json:"createdAt" dynamodbav:"createdAt"`
	AutoApprovedAt *time.Time `json:"autoApprovedAt,omitempty" dynamodbav:"autoApprovedAt,omitempty"`
	LastResetAt    *time.Time `json:"lastResetAt,omitempty" dynamodbav:"lastResetAt,omitempty"`
}

// PendingType is the kind of entity a pending reward originated from.
type PendingType string

const (
	PendingFromTodo     PendingType = "todo"
	PendingFromActivity PendingType = "activity"
	PendingFromBehavior PendingType = "behavior"
)

// ParsePendingType validates a pending entry source type.
func ParsePendingType(s string) (PendingType, error) {
	switch t := PendingType(s); t {
	case PendingFromTodo, PendingFromActivity, PendingFromBehavior:
		return t, nil
	}
	return "", fmt.Errorf("invalid pending type %q", s)
}

// PendingEntry is a reward awaiting parent approval.
type PendingEntry struct {
	PendingID   string      `json:"pendingId" dynamodbav:"pendingId"`
	UserID      string      `json:"userId" dynamodbav:"userId"`
	Amount      Money       `json:"amount" dynamodbav:"amount"`
	Reason      string      `json:"reason" dynamodbav:"reason"`
	Type        PendingType `json:"type" dynamodbav:"type"`
	ReferenceID string      `json:"referenceId" dynamodbav:"referenceId"`
	CreatedAt   time.Time   `json:"createdAt" dynamodbav:"createdAt"`
}

// LogType classifies a balance log entry.
type LogType string

const (
	LogEarn   LogType = "earn"
	LogLose   LogType = "lose"
	LogAdjust LogType = "adjust"
)

// LogSource identifies the operation that produced a balance log entry.
type LogSource string

const (
	SourceManualEdit       LogSource = "manual_edit"
	SourcePendingApproval  LogSource = "pending_approval"
	SourceApproveAll       LogSource = "pending_approval_all"
	SourcePenalty          LogSource = "penalty_uncompleted_todos"
	SourceAutoApprovedTodo LogSource = "auto_approved_todo"
	SourceEditModeApproval LogSource = "edit_mode_approval"
)

// BalanceLog is an immutable record of one balance mutation.
type BalanceLog struct {
	LogID         string    `json:"logId" dynamodbav:"logId"`
	UserID        string    `json:"userId" dynamodbav:"userId"`
	Amount        Money     `json:"amount" dynamodbav:"amount"`
	BalanceBefore Money     `json:"balanceBefore" dynamodbav:"balanceBefore"`
	BalanceAfter  Money     `json:"balanceAfter" dynamodbav:"balanceAfter"`
	Reason        string    `json:"reason,omitempty" dynamodbav:"reason,omitempty"`
	Note          string    `json:"note,omitempty" dynamodbav:"note,omitempty"`
	Type          LogType   `json:"type" dynamodbav:"type"`
	Source        LogSource `json:"source" dynamodbav:"source"`
	Timestamp     time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Behavior is a named category of activities.
type Behavior struct {
	BehaviorID   string  `json:"behaviorId" dynamodbav:"behaviorId"`
	UserID       string  `json:"userId" dynamodbav:"userId"`
	BehaviorName string  `json:"behaviorName" dynamodbav:"behaviorName"`
	BannerImage  *string `json:"bannerImage,omitempty" dynamodbav:"bannerImage,omitempty"`
	ThumbImage   *string `json:"thumbImage,omitempty" dynamodbav:"thumbImage,omitempty"`
}

// Activity is an earn/lose action belonging to one behavior.
type Activity struct {
	ActivityID   string `json:"activityId" dynamodbav:"activityId"`
	BehaviorID   string `json:"behaviorId" dynamodbav:"behaviorId"`
	UserID       string `json:"userId" dynamodbav:"userId"`
	ActivityName string `json:"activityName" dynamodbav:"activityName"`
	Money        Money  `json:"money" dynamodbav:"money"`
	Positive     bool   `json:"positive" dynamodbav:"positive"`
}

// EventType says which way an event moves money.
type EventType string

const (
	EventEarn  EventType = "earn"
	EventLose  EventType = "lose"
	EventSpend EventType = "spend"
)

// ParseEventType validates an event type.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventEarn, EventLose, EventSpend:
		return t, nil
	}
	return "", fmt.Errorf("invalid event type %q", s)
}

// Event is a one-off occasion a parent can reward or fine, such as a birthday or a broken rule.
type Event struct {
	EventID     string    `json:"eventId" dynamodbav:"eventId"`
	UserID      string    `json:"userId" dynamodbav:"userId"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description *string   `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Image       *string   `json:"image,omitempty" dynamodbav:"image,omitempty"`
	Amount      Money     `json:"amount" dynamodbav:"amount"`
	Type        EventType `json:"type" dynamodbav:"type"`
}

// RunStatus is the progress of a scheduled pass.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunFailed  RunStatus = "failed"
	RunDone    RunStatus = "done"
)

// ScheduleRun records the last period a scheduled pass was claimed for and how far it got.
// A running pass holds the claim until LeaseExpires (unix seconds); a failed one can be
// claimed again right away.
type ScheduleRun struct {
	Repeat           Repeat    `json:"repeat" dynamodbav:"repeat"`
	Period           string    `json:"period" dynamodbav:"period"`
	Status           RunStatus `json:"status" dynamodbav:"status"`
	PenaltiesApplied bool      `json:"penaltiesApplied" dynamodbav:"penaltiesApplied"`
	ClaimedAt        time.Time `json:"claimedAt" dynamodbav:"claimedAt"`
	LeaseExpires     int64     `json:"leaseExpires" dynamodbav:"leaseExpires"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Claimable reports whether a pass for period may start at now given this stored run.
func (r ScheduleRun) Claimable(period string, now time.Time) bool {
	if r.Period != period {
		return true
	}
	switch r.Status {
	case RunFailed:
		return true
	case RunRunning:
		return now.Unix() >= r.LeaseExpires
	}
	return false
}
