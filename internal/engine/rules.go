package engine

import (
	"math"
	"time"

	"hypersonic/internal/clock"
	"hypersonic/internal/models"
)

const (
	// DefaultDaysToFail is used for habits created without a threshold.
	DefaultDaysToFail = 3
	// MasteryStreak is the streak at which a habit is shown as mastered.
	MasteryStreak = 21
	// StreakLookback bounds the overall streak scan.
	StreakLookback = 365

	goalWeight  = 60
	habitWeight = 40
)

// ResetDay performs the reset transaction when the stored day differs from
// today. It reports whether anything changed.
func ResetDay(d *models.AppData, today string) bool {
	if d.LastResetDate == today {
		return false
	}
	ClearGoals(d)
	d.LastResetDate = today
	d.Notified = models.NotificationLedger{Day: today, Habits: []string{}}
	return true
}

// ClearGoals marks every daily goal as not completed.
func ClearGoals(d *models.AppData) {
	for i := range d.DailyGoals {
		d.DailyGoals[i].Completed = false
	}
}

// NewHabit returns a fresh active habit.
func NewHabit(id, name string, daysToFail int, now time.Time) models.Habit {
	if daysToFail <= 0 {
		daysToFail = DefaultDaysToFail
	}
	return models.Habit{
		ID:         id,
		Name:       name,
		Streak:     0,
		Level:      1,
		DaysToFail: daysToFail,
		Status:     models.HabitActive,
		CreatedAt:  now,
	}
}

// LevelFor returns the level reached with the given streak.
func LevelFor(streak int) int {
	return streak/7 + 1
}

// CompleteHabit counts today's completion. At most one completion per civil
// day is counted; a repeat returns false and leaves the habit untouched.
func CompleteHabit(h *models.Habit, today string) bool {
	if h.CompletedOn(today) {
		return false
	}
	if h.LastCompleted != nil && *h.LastCompleted > today {
		return false
	}
	h.Streak++
	day := today
	h.LastCompleted = &day
	h.Level = LevelFor(h.Streak)
	return true
}

// IsMastered is a display flag only.
func IsMastered(h models.Habit) bool {
	return h.Streak >= MasteryStreak
}

func threshold(h models.Habit) int {
	if h.DaysToFail > 0 {
		return h.DaysToFail
	}
	return DefaultDaysToFail
}

// ElapsedDays returns the whole civil days since the habit was last completed,
// or since it was created when it never was.
func ElapsedDays(h models.Habit, today string) int {
	since := clock.DayOf(h.CreatedAt)
	if h.LastCompleted != nil {
		since = *h.LastCompleted
	}
	n, err := clock.DaysBetween(since, today)
	if err != nil {
		return 0
	}
	return n
}

// HabitFailed reports whether an active habit has gone unattended for at
// least its failure threshold.
func HabitFailed(h models.Habit, today string) bool {
	return h.Status == models.HabitActive && ElapsedDays(h, today) >= threshold(h)
}

// FailureCheck removes failed habits from the document and returns them.
func FailureCheck(d *models.AppData, today string) []models.Habit {
	var removed []models.Habit
	kept := d.Habits[:0:0]
	for _, h := range d.Habits {
		if HabitFailed(h, today) {
			removed = append(removed, h)
			continue
		}
		kept = append(kept, h)
	}
	if len(removed) > 0 {
		d.Habits = kept
	}
	return removed
}

// Progress is the derived score for a day.
type Progress struct {
	GoalProgress    float64 `json:"goalProgress"`
	HabitProgress   float64 `json:"habitProgress"`
	Total           float64 `json:"-"`
	TotalProgress   int     `json:"totalProgress"`
	CompletedGoals  int     `json:"completedGoals"`
	TotalGoals      int     `json:"totalGoals"`
	CompletedHabits int     `json:"completedHabits"`
	TotalHabits     int     `json:"totalHabits"`
	TotalTasks      int     `json:"totalTasks"`
}

// ComputeProgress derives the weighted progress score for today.
func ComputeProgress(d *models.AppData, today string) Progress {
	p := Progress{TotalGoals: len(d.DailyGoals), TotalHabits: len(d.Habits)}
	for _, g := range d.DailyGoals {
		if g.Completed {
			p.CompletedGoals++
		}
	}
	for _, h := range d.Habits {
		if h.CompletedOn(today) {
			p.CompletedHabits++
		}
	}
	if p.TotalGoals > 0 {
		p.GoalProgress = float64(p.CompletedGoals) / float64(p.TotalGoals) * goalWeight
	}
	if p.TotalHabits > 0 {
		p.HabitProgress = float64(p.CompletedHabits) / float64(p.TotalHabits) * habitWeight
	}
	p.Total = math.Min(p.GoalProgress+p.HabitProgress, 100)
	p.TotalProgress = int(math.Round(p.Total))
	p.TotalTasks = p.CompletedGoals + p.CompletedHabits
	return p
}

// ActivityLevel maps a progress score to a calendar intensity.
func ActivityLevel(total float64) int {
	switch {
	case total >= 80:
		return 3
	case total >= 50:
		return 2
	default:
		return 1
	}
}

// RecordActivity overwrites today's log entry from the current progress,
// keeping the day's urge task counter.
func RecordActivity(d *models.AppData, today string) models.ActivityLogEntry {
	p := ComputeProgress(d, today)
	entry := models.ActivityLogEntry{
		Date:               today,
		Level:              ActivityLevel(p.Total),
		GoalsCompleted:     p.CompletedGoals,
		HabitsCompleted:    p.CompletedHabits,
		UrgeTasksCompleted: d.ActivityLog[today].UrgeTasksCompleted,
	}
	d.ActivityLog[today] = entry
	return entry
}

// RecordUrgeTask counts one urge breaker completion for today.
func RecordUrgeTask(d *models.AppData, today string) models.ActivityLogEntry {
	entry := d.ActivityLog[today]
	entry.UrgeTasksCompleted++
	d.ActivityLog[today] = entry
	return RecordActivity(d, today)
}

// OverallStreak counts consecutive active days ending today.
func OverallStreak(log map[string]models.ActivityLogEntry, today string) int {
	streak := 0
	for i := 0; i < StreakLookback; i++ {
		entry, ok := log[clock.AddDays(today, -i)]
		if !ok || entry.Level <= 0 {
			break
		}
		streak++
	}
	return streak
}

// MonthActivity returns the log entries that fall within the given month.
func MonthActivity(log map[string]models.ActivityLogEntry, year int, month time.Month) []models.ActivityLogEntry {
	first := time.Date(year, month, 1, 0, 0, 0, 0, clock.Zone)
	var out []models.ActivityLogEntry
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		if entry, ok := log[day.Format(clock.DayFormat)]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// DaysLeftInMonth returns how many days remain in today's month after today.
func DaysLeftInMonth(today string) int {
	t, err := clock.ParseDay(today)
	if err != nil {
		return 0
	}
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, clock.Zone)
	return last.Day() - t.Day()
}
