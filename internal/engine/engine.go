package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hypersonic/internal/logger"
	"hypersonic/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEmptyText        = errors.New("text must not be empty")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrHabitNotFound    = errors.New("habit not found")
	ErrUrgeTaskNotFound = errors.New("urge task not found")
)

// Clock is the civil calendar the engine runs against.
type Clock interface {
	Now() time.Time
	Today() string
	TimeUntilMidnight() (hours, minutes int)
}

// Store persists the whole document. Load returns nil when nothing was saved yet.
type Store interface {
	Load() (*models.AppData, error)
	Save(*models.AppData) error
}

// Engine owns the app data document for a session. Every transition runs
// under one lock together with its save.
type Engine struct {
	mu       sync.Mutex
	data     *models.AppData
	clock    Clock
	store    Store
	notifier Notifier
	newID    func() string
}

// New builds an engine with an empty document. Call Load before use.
func New(c Clock, store Store, notifier Notifier) *Engine {
	return &Engine{
		data:     models.NewAppData(),
		clock:    c,
		store:    store,
		notifier: notifier,
		newID:    uuid.NewString,
	}
}

// Load reads the stored document, falling back to an empty one on failure,
// then runs the reset detector and failure check once.
func (e *Engine) Load() {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.store.Load()
	if err != nil {
		logger.Error("Failed to load app data, starting empty", "error", err)
		data = nil
	}
	if data == nil {
		data = models.NewAppData()
	}
	data.Normalize()
	e.data = data

	today := e.clock.Today()
	next := e.data.Clone()
	prev := next.LastResetDate
	changed := ResetDay(next, today)
	if changed {
		logger.Info("Daily reset triggered", "from", prev, "to", today)
	}
	if removed := FailureCheck(next, today); len(removed) > 0 {
		logFailed(removed, today)
		changed = true
	}
	if changed {
		e.commit(next)
	}
	logger.Info("App data loaded", "goals", len(e.data.DailyGoals), "habits", len(e.data.Habits), "today", today)
}

// Tick is the periodic clock sample: it detects a day change, drops failed
// habits on a new day and sends any reminders that became due.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	today := e.clock.Today()
	hours, _ := e.clock.TimeUntilMidnight()

	next := e.data.Clone()
	changed := false
	if prev := next.LastResetDate; ResetDay(next, today) {
		logger.Info("Daily reset triggered", "from", prev, "to", today)
		changed = true
		logFailed(FailureCheck(next, today), today)
	}
	var due []Notification
	if e.notifier != nil {
		due = DueNotifications(next, today, hours)
		if len(due) > 0 {
			changed = true
		}
	}
	if changed {
		e.commit(next)
	}
	e.mu.Unlock()

	for _, n := range due {
		if err := e.notifier.Notify(ctx, n); err != nil {
			logger.Warn("Notification delivery failed", "tag", n.Tag, "error", err)
		}
	}
}

// ResetNow clears today's goal completions on demand. The reminder ledger is
// kept, so reminders already sent today are not repeated.
func (e *Engine) ResetNow() {
	e.apply(func(d *models.AppData, _ string) error {
		ClearGoals(d)
		return nil
	})
	logger.Info("Manual reset triggered")
}

// AddGoal appends a new, not yet completed goal for today.
func (e *Engine) AddGoal(text string) (models.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Goal{}, ErrEmptyText
	}
	goal := models.Goal{ID: e.newID(), Text: text, CreatedAt: e.clock.Now()}
	err := e.apply(func(d *models.AppData, _ string) error {
		d.DailyGoals = append(d.DailyGoals, goal)
		return nil
	})
	return goal, err
}

// ToggleGoal flips the completion of the goal with the given id.
func (e *Engine) ToggleGoal(id string) (models.Goal, error) {
	var goal models.Goal
	err := e.apply(func(d *models.AppData, _ string) error {
		for i := range d.DailyGoals {
			if d.DailyGoals[i].ID == id {
				d.DailyGoals[i].Completed = !d.DailyGoals[i].Completed
				goal = d.DailyGoals[i]
				return nil
			}
		}
		return ErrGoalNotFound
	})
	return goal, err
}

// AddHabit starts tracking a new active habit.
func (e *Engine) AddHabit(name string, daysToFail int) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrEmptyText
	}
	habit := NewHabit(e.newID(), name, daysToFail, e.clock.Now())
	err := e.apply(func(d *models.AppData, _ string) error {
		d.Habits = append(d.Habits, habit)
		return nil
	})
	return habit, err
}

// CompleteHabit records today's completion. Repeats on the same day return
// the habit unchanged.
func (e *Engine) CompleteHabit(id string) (models.Habit, error) {
	var habit models.Habit
	err := e.apply(func(d *models.AppData, today string) error {
		for i := range d.Habits {
			if d.Habits[i].ID == id {
				CompleteHabit(&d.Habits[i], today)
				habit = d.Habits[i]
				return nil
			}
		}
		return ErrHabitNotFound
	})
	return habit, err
}

// RemoveHabit stops tracking the habit with the given id.
func (e *Engine) RemoveHabit(id string) error {
	return e.apply(func(d *models.AppData, _ string) error {
		for i := range d.Habits {
			if d.Habits[i].ID == id {
				d.Habits = append(d.Habits[:i], d.Habits[i+1:]...)
				return nil
			}
		}
		return ErrHabitNotFound
	})
}

// CompleteUrgeTask counts a completed urge breaker task for today.
func (e *Engine) CompleteUrgeTask(id string) (models.ActivityLogEntry, error) {
	if _, ok := models.FindUrgeTask(id); !ok {
		return models.ActivityLogEntry{}, ErrUrgeTaskNotFound
	}
	var entry models.ActivityLogEntry
	err := e.apply(func(d *models.AppData, today string) error {
		entry = RecordUrgeTask(d, today)
		return nil
	})
	return entry, err
}

// HabitView is a habit with its display-derived flags.
type HabitView struct {
	models.Habit
	Mastered       bool `json:"mastered"`
	CompletedToday bool `json:"completedToday"`
}

// Snapshot is a read-only view of the document and its derived statistics.
type Snapshot struct {
	Today             string                             `json:"today"`
	HoursUntilReset   int                                `json:"hoursUntilReset"`
	MinutesUntilReset int                                `json:"minutesUntilReset"`
	DailyGoals        []models.Goal                      `json:"dailyGoals"`
	Habits            []HabitView                        `json:"habits"`
	ActivityLog       map[string]models.ActivityLogEntry `json:"activityLog"`
	LastResetDate     string                             `json:"lastResetDate"`
	Progress          Progress                           `json:"progress"`
	Streak            int                                `json:"streak"`
}

// Snapshot returns the current document with its derived statistics. A
// pending day change is applied first.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	today := e.catchUp()
	d := e.data.Clone()
	e.mu.Unlock()

	hours, minutes := e.clock.TimeUntilMidnight()
	habits := make([]HabitView, len(d.Habits))
	for i, h := range d.Habits {
		habits[i] = HabitView{Habit: h, Mastered: IsMastered(h), CompletedToday: h.CompletedOn(today)}
	}
	return Snapshot{
		Today:             today,
		HoursUntilReset:   hours,
		MinutesUntilReset: minutes,
		DailyGoals:        d.DailyGoals,
		Habits:            habits,
		ActivityLog:       d.ActivityLog,
		LastResetDate:     d.LastResetDate,
		Progress:          ComputeProgress(d, today),
		Streak:            OverallStreak(d.ActivityLog, today),
	}
}

// Data returns a copy of the current document, after any pending day change.
func (e *Engine) Data() *models.AppData {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.catchUp()
	return e.data.Clone()
}

// Today exposes the engine's civil day.
func (e *Engine) Today() string {
	return e.clock.Today()
}

// apply runs fn against a copy of the document, re-derives today's activity
// entry and commits the copy. The document is left untouched if fn fails.
// A pending day change is applied first so actions never land on a stale day.
func (e *Engine) apply(fn func(d *models.AppData, today string) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Today()
	next := e.data.Clone()
	if ResetDay(next, today) {
		logFailed(FailureCheck(next, today), today)
	}
	if err := fn(next, today); err != nil {
		return err
	}
	RecordActivity(next, today)
	e.commit(next)
	return nil
}

// catchUp commits the reset and failure check when the day has changed since
// the last transition, and returns today. Must hold e.mu.
func (e *Engine) catchUp() string {
	today := e.clock.Today()
	if e.data.LastResetDate == today {
		return today
	}
	next := e.data.Clone()
	prev := next.LastResetDate
	ResetDay(next, today)
	logger.Info("Daily reset triggered", "from", prev, "to", today)
	logFailed(FailureCheck(next, today), today)
	e.commit(next)
	return today
}

// commit swaps in the new document and persists it. Must hold e.mu.
func (e *Engine) commit(next *models.AppData) {
	e.data = next
	if err := e.store.Save(next); err != nil {
		logger.Error("Failed to save app data", "error", err)
	}
}

func logFailed(removed []models.Habit, today string) {
	for _, h := range removed {
		logger.Info("Habit failed and was removed", "habit", h.Name, "streak", h.Streak, "today", today)
	}
}
