package scheduler

import (
	"fmt"
	"time"

	"github.com/chris/allowance-ledger/pkg/models"
	"github.com/chris/allowance-ledger/pkg/rewards"
)

// Due is one recurrence class whose scheduled pass should run for Period.
type Due struct {
	Repeat models.Repeat `json:"repeat"`
	Period string        `json:"period"`
}

// NextResets holds the next instant each recurrence class resets.
type NextResets struct {
	Daily   time.Time `json:"nextDailyReset"`
	Weekly  time.Time `json:"nextWeeklyReset"`
	Monthly time.Time `json:"nextMonthlyReset"`
}

// Trigger decides when scheduled passes are due. Daily passes run in [At, At+Window) every day,
// weekly passes in the same window on Mondays and monthly passes on the 1st.
type Trigger struct {
	At       rewards.Clock
	Window   time.Duration
	Location *time.Location
}

// NewTrigger parses resetTime ("HH:MM") into a Trigger.
func NewTrigger(resetTime string, window time.Duration, loc *time.Location) (Trigger, error) {
	at, err := rewards.ParseClock(resetTime)
	if err != nil {
		return Trigger{}, err
	}
	if window <= 0 {
		return Trigger{}, fmt.Errorf("reset window must be positive, got %s", window)
	}
	if loc == nil {
		loc = time.Local
	}
	return Trigger{At: at, Window: window, Location: loc}, nil
}

func (t Trigger) local(now time.Time) time.Time {
	if t.Location == nil {
		return now
	}
	return now.In(t.Location)
}

// Due returns the classes due at now, daily first.
func (t Trigger) Due(now time.Time) []Due {
	now = t.local(now)
	start := t.At.On(now)
	if now.Before(start) || !now.Before(start.Add(t.Window)) {
		return nil
	}

	due := []Due{{Repeat: models.Daily, Period: PeriodKey(models.Daily, now)}}
	if now.Weekday() == time.Monday {
		due = append(due, Due{Repeat: models.Weekly, Period: PeriodKey(models.Weekly, now)})
	}
	if now.Day() == 1 {
		due = append(due, Due{Repeat: models.Monthly, Period: PeriodKey(models.Monthly, now)})
	}
	return due
}

// Next returns the next reset instant of each class strictly after now.
func (t Trigger) Next(now time.Time) NextResets {
	now = t.local(now)

	daily := t.At.On(now)
	if !daily.After(now) {
		daily = t.At.On(now.AddDate(0, 0, 1))
	}

	daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	weekly := t.At.On(now.AddDate(0, 0, daysUntilMonday))
	if !weekly.After(now) {
		weekly = weekly.AddDate(0, 0, 7)
	}

	monthly := t.At.On(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	if !monthly.After(now) {
		monthly = t.At.On(time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()))
	}

	return NextResets{Daily: daily, Weekly: weekly, Monthly: monthly}
}

// PeriodKey names the period containing t: the date for daily, the ISO week for weekly and the
// month for monthly. Two triggers in the same period share a key.
func PeriodKey(repeat models.Repeat, t time.Time) string {
	switch repeat {
	case models.Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case models.Monthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
