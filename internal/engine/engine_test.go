package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hypersonic/internal/clock"
	"hypersonic/internal/engine"
	"hypersonic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data    *models.AppData
	saves   int
	loadErr error
	saveErr error
}

func (s *memStore) Load() (*models.AppData, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.data == nil {
		return nil, nil
	}
	return s.data.Clone(), nil
}

func (s *memStore) Save(d *models.AppData) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = d.Clone()
	return nil
}

type recorder struct {
	sent []engine.Notification
}

func (r *recorder) Notify(_ context.Context, n engine.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

type harness struct {
	now      time.Time
	store    *memStore
	notifier *recorder
	engine   *engine.Engine
}

// newHarness starts at 10:00 on 2024-01-01 in +6.
func newHarness(t *testing.T, stored *models.AppData) *harness {
	t.Helper()
	h := &harness{
		now:      time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC),
		store:    &memStore{data: stored},
		notifier: &recorder{},
	}
	c := clock.NewAt(func() time.Time { return h.now })
	h.engine = engine.New(c, h.store, h.notifier)
	h.engine.Load()
	return h
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func TestLoadEmpty(t *testing.T) {
	h := newHarness(t, nil)

	data := h.engine.Data()
	assert.Equal(t, "2024-01-01", data.LastResetDate)
	assert.Empty(t, data.DailyGoals)
	assert.Equal(t, 1, h.store.saves)
}

func TestLoadErrorDegradesToEmpty(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire")}
	c := clock.NewAt(func() time.Time { return time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC) })
	e := engine.New(c, store, nil)

	require.NotPanics(t, e.Load)
	assert.Equal(t, "2024-01-01", e.Data().LastResetDate)
}

func TestLoadResetsStaleDocument(t *testing.T) {
	stored := models.NewAppData()
	stored.LastResetDate = "2023-12-31"
	stored.DailyGoals = []models.Goal{{ID: "g", Text: "plan", Completed: true}}

	h := newHarness(t, stored)

	data := h.engine.Data()
	assert.Equal(t, "2024-01-01", data.LastResetDate)
	assert.False(t, data.DailyGoals[0].Completed)
	assert.Equal(t, "2024-01-01", h.store.data.LastResetDate)
}

func TestTickResetsAtMidnight(t *testing.T) {
	h := newHarness(t, nil)
	goal, err := h.engine.AddGoal("write")
	require.NoError(t, err)
	_, err = h.engine.ToggleGoal(goal.ID)
	require.NoError(t, err)

	h.advance(13*time.Hour + 59*time.Minute) // 23:59
	h.engine.Tick(context.Background())
	assert.True(t, h.engine.Data().DailyGoals[0].Completed)

	h.advance(time.Minute)
	h.engine.Tick(context.Background())
	data := h.engine.Data()
	assert.Equal(t, "2024-01-02", data.LastResetDate)
	assert.False(t, data.DailyGoals[0].Completed)

	saves := h.store.saves
	h.engine.Tick(context.Background())
	assert.Equal(t, saves, h.store.saves, "second tick on the same day is a no-op")
}

func TestCompleteHabitTwiceSameDay(t *testing.T) {
	h := newHarness(t, nil)
	habit, err := h.engine.AddHabit("read", 3)
	require.NoError(t, err)

	_, err = h.engine.CompleteHabit(habit.ID)
	require.NoError(t, err)
	got, err := h.engine.CompleteHabit(habit.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, "2024-01-01", *got.LastCompleted)

	h.advance(24 * time.Hour)
	got, err = h.engine.CompleteHabit(habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Streak)
}

func TestHabitFailsAfterThreshold(t *testing.T) {
	h := newHarness(t, nil)
	habit, err := h.engine.AddHabit("floss", 3)
	require.NoError(t, err)
	_, err = h.engine.CompleteHabit(habit.ID)
	require.NoError(t, err)

	h.advance(2 * 24 * time.Hour)
	h.engine.Tick(context.Background())
	require.Len(t, h.engine.Data().Habits, 1)

	h.advance(24 * time.Hour)
	h.engine.Tick(context.Background())
	assert.Empty(t, h.engine.Data().Habits)
}

func TestNotificationsDeduplicated(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.AddHabit("read", 3)
	require.NoError(t, err)
	_, err = h.engine.AddGoal("plan week")
	require.NoError(t, err)

	h.advance(9 * time.Hour) // 19:00, five hours left
	h.engine.Tick(context.Background())
	require.Len(t, h.notifier.sent, 2)

	h.advance(30 * time.Minute)
	h.engine.Tick(context.Background())
	assert.Len(t, h.notifier.sent, 2)

	h.advance(24 * time.Hour)
	h.engine.Tick(context.Background())
	assert.Len(t, h.notifier.sent, 4)
}

func TestUrgeTasksCountPerDay(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.engine.CompleteUrgeTask("1")
	require.NoError(t, err)
	entry, err := h.engine.CompleteUrgeTask("4")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.UrgeTasksCompleted)

	goal, err := h.engine.AddGoal("journal")
	require.NoError(t, err)
	_, err = h.engine.ToggleGoal(goal.ID)
	require.NoError(t, err)

	today := h.engine.Data().ActivityLog["2024-01-01"]
	assert.Equal(t, 2, today.UrgeTasksCompleted)
	assert.Equal(t, 2, today.Level)
	assert.Equal(t, 1, today.GoalsCompleted)

	_, err = h.engine.CompleteUrgeTask("99")
	assert.ErrorIs(t, err, engine.ErrUrgeTaskNotFound)
}

func TestSnapshot(t *testing.T) {
	stored := models.NewAppData()
	stored.LastResetDate = "2024-01-01"
	stored.ActivityLog["2023-12-31"] = models.ActivityLogEntry{Date: "2023-12-31", Level: 2}
	stored.Habits = []models.Habit{{
		ID: "m", Name: "walk", Streak: 21, Level: 4, DaysToFail: 3,
		Status: models.HabitActive, CreatedAt: time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		LastCompleted: ptr("2023-12-31"),
	}}
	h := newHarness(t, stored)

	_, err := h.engine.CompleteHabit("m")
	require.NoError(t, err)

	snap := h.engine.Snapshot()
	assert.Equal(t, "2024-01-01", snap.Today)
	assert.Equal(t, 14, snap.HoursUntilReset)
	require.Len(t, snap.Habits, 1)
	assert.True(t, snap.Habits[0].Mastered)
	assert.True(t, snap.Habits[0].CompletedToday)
	assert.Equal(t, 40, snap.Progress.TotalProgress)
	assert.Equal(t, 2, snap.Streak)
}

func TestMutationErrors(t *testing.T) {
	h := newHarness(t, nil)
	saves := h.store.saves

	_, err := h.engine.AddGoal("   ")
	assert.ErrorIs(t, err, engine.ErrEmptyText)
	_, err = h.engine.AddHabit("", 3)
	assert.ErrorIs(t, err, engine.ErrEmptyText)
	_, err = h.engine.ToggleGoal("missing")
	assert.ErrorIs(t, err, engine.ErrGoalNotFound)
	_, err = h.engine.CompleteHabit("missing")
	assert.ErrorIs(t, err, engine.ErrHabitNotFound)
	assert.ErrorIs(t, h.engine.RemoveHabit("missing"), engine.ErrHabitNotFound)

	assert.Equal(t, saves, h.store.saves)
}

func TestRemoveHabit(t *testing.T) {
	h := newHarness(t, nil)
	habit, err := h.engine.AddHabit("yoga", 5)
	require.NoError(t, err)

	require.NoError(t, h.engine.RemoveHabit(habit.ID))
	assert.Empty(t, h.engine.Data().Habits)
	assert.Empty(t, h.store.data.Habits)
}

func TestSaveFailureKeepsSession(t *testing.T) {
	h := newHarness(t, nil)
	h.store.saveErr = errors.New("read-only filesystem")

	goal, err := h.engine.AddGoal("stay alive")
	require.NoError(t, err)
	assert.Equal(t, goal.ID, h.engine.Data().DailyGoals[0].ID)
}

func TestResetNow(t *testing.T) {
	h := newHarness(t, nil)
	goal, err := h.engine.AddGoal("code")
	require.NoError(t, err)
	_, err = h.engine.ToggleGoal(goal.ID)
	require.NoError(t, err)

	h.engine.ResetNow()

	data := h.engine.Data()
	assert.False(t, data.DailyGoals[0].Completed)
	assert.Equal(t, "2024-01-01", data.LastResetDate)
}

func TestMutationAfterMidnightAppliesResetFirst(t *testing.T) {
	h := newHarness(t, nil)
	first, err := h.engine.AddGoal("a")
	require.NoError(t, err)
	_, err = h.engine.ToggleGoal(first.ID)
	require.NoError(t, err)

	h.advance(24 * time.Hour)
	_, err = h.engine.AddGoal("b")
	require.NoError(t, err)

	data := h.engine.Data()
	assert.Equal(t, "2024-01-02", data.LastResetDate)
	assert.False(t, data.DailyGoals[0].Completed)
	assert.Equal(t, 2, data.ActivityLog["2024-01-01"].Level, "yesterday's entry is left as it was")
}

func ptr(s string) *string { return &s }

func TestResetNowKeepsReminderLedger(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.AddHabit("read", 3)
	require.NoError(t, err)
	goal, err := h.engine.AddGoal("plan week")
	require.NoError(t, err)

	h.advance(9 * time.Hour) // 19:00
	h.engine.Tick(context.Background())
	require.Len(t, h.notifier.sent, 2)

	_, err = h.engine.ToggleGoal(goal.ID)
	require.NoError(t, err)
	h.engine.ResetNow()
	h.advance(time.Minute)
	h.engine.Tick(context.Background())

	assert.Len(t, h.notifier.sent, 2, "reminders go out once per day")
	assert.False(t, h.engine.Data().DailyGoals[0].Completed)
}

func TestSnapshotAppliesPendingReset(t *testing.T) {
	h := newHarness(t, nil)
	goal, err := h.engine.AddGoal("write")
	require.NoError(t, err)
	_, err = h.engine.ToggleGoal(goal.ID)
	require.NoError(t, err)

	h.advance(14 * time.Hour) // 00:00 on 2024-01-02, no tick
	snap := h.engine.Snapshot()

	assert.Equal(t, "2024-01-02", snap.Today)
	assert.Equal(t, "2024-01-02", snap.LastResetDate)
	require.Len(t, snap.DailyGoals, 1)
	assert.False(t, snap.DailyGoals[0].Completed)
	assert.Equal(t, 0, snap.Progress.TotalProgress)
	assert.Equal(t, "2024-01-02", h.store.data.LastResetDate)
}

func TestDataAppliesPendingFailureCheck(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.engine.AddHabit("floss", 1)
	require.NoError(t, err)

	h.advance(24 * time.Hour)
	assert.Empty(t, h.engine.Data().Habits)
}
