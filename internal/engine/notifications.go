package engine

import (
	"context"
	"fmt"
	"math"

	"hypersonic/internal/models"
)

const (
	// HabitWarningHours is how close to midnight an unfinished habit is flagged.
	HabitWarningHours = 6
	// GoalWarningHours is how close to midnight lagging goals are flagged.
	GoalWarningHours = 5
	// GoalWarningRatio is the completion percentage below which goals lag.
	GoalWarningRatio = 50

	GoalsTag = "goals-progress"
)

// Notification is a reminder raised by the engine.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// Notifier delivers notifications. Transport is up to the implementation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// HabitTag is the notification tag used for a habit reminder.
func HabitTag(id string) string {
	return "habit-" + id
}

// DueNotifications returns the reminders that should go out now and marks
// them in the document's ledger so each fires at most once per day.
func DueNotifications(d *models.AppData, today string, hoursLeft int) []Notification {
	if d.Notified.Day != today {
		d.Notified = models.NotificationLedger{Day: today, Habits: []string{}}
	}

	var out []Notification
	if hoursLeft <= HabitWarningHours {
		for _, h := range d.Habits {
			if h.Status != models.HabitActive || h.CompletedOn(today) || d.Notified.HasHabit(h.ID) {
				continue
			}
			out = append(out, Notification{
				Title: "⚠️ Habit at Risk!",
				Body:  fmt.Sprintf("%q hasn't been completed yet. Complete it before midnight to maintain your %d-day streak!", h.Name, h.Streak),
				Tag:   HabitTag(h.ID),
			})
			d.Notified.Habits = append(d.Notified.Habits, h.ID)
		}
	}

	if hoursLeft <= GoalWarningHours && !d.Notified.Goals && len(d.DailyGoals) > 0 {
		completed := 0
		for _, g := range d.DailyGoals {
			if g.Completed {
				completed++
			}
		}
		pct := float64(completed) / float64(len(d.DailyGoals)) * 100
		if pct < GoalWarningRatio {
			out = append(out, Notification{
				Title: "📊 Goals Behind Schedule!",
				Body:  fmt.Sprintf("You've only completed %d%% of your daily goals with %d hours left. Time to catch up!", int(math.Round(pct)), hoursLeft),
				Tag:   GoalsTag,
			})
			d.Notified.Goals = true
		}
	}
	return out
}
