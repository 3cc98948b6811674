package models

import "time"

type HabitStatus string

const (
	HabitActive HabitStatus = "active"
	HabitFailed HabitStatus = "failed"
)

type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type Habit struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Streak        int         `json:"streak"`
	Level         int         `json:"level"`
	LastCompleted *string     `json:"lastCompleted"`
	DaysToFail    int         `json:"daysToFail"`
	Status        HabitStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CompletedOn reports whether the habit's last completion was on day.
func (h Habit) CompletedOn(day string) bool {
	return h.LastCompleted != nil && *h.LastCompleted == day
}

type ActivityLogEntry struct {
	Date               string `json:"date"`
	Level              int    `json:"level"`
	GoalsCompleted     int    `json:"goalsCompleted"`
	HabitsCompleted    int    `json:"habitsCompleted"`
	UrgeTasksCompleted int    `json:"urgeTasksCompleted"`
}

// NotificationLedger records which reminders already went out on Day.
type NotificationLedger struct {
	Day    string   `json:"day"`
	Habits []string `json:"habits"`
	Goals  bool     `json:"goals"`
}

// HasHabit reports whether the at-risk reminder for habit id was sent.
func (l NotificationLedger) HasHabit(id string) bool {
	for _, h := range l.Habits {
		if h == id {
			return true
		}
	}
	return false
}

// AppData is the aggregate root holding everything tracked for a session.
type AppData struct {
	DailyGoals    []Goal                      `json:"dailyGoals"`
	Habits        []Habit                     `json:"habits"`
	ActivityLog   map[string]ActivityLogEntry `json:"activityLog"`
	LastResetDate string                      `json:"lastResetDate"`
	Notified      NotificationLedger          `json:"notified"`
}

// NewAppData returns an empty document.
func NewAppData() *AppData {
	d := &AppData{}
	d.Normalize()
	return d
}

// Normalize replaces nil collections so the document always serializes to
// arrays and objects.
func (d *AppData) Normalize() {
	if d.DailyGoals == nil {
		d.DailyGoals = []Goal{}
	}
	if d.Habits == nil {
		d.Habits = []Habit{}
	}
	if d.ActivityLog == nil {
		d.ActivityLog = map[string]ActivityLogEntry{}
	}
	if d.Notified.Habits == nil {
		d.Notified.Habits = []string{}
	}
}

// Clone returns a deep copy of the document.
func (d *AppData) Clone() *AppData {
	c := &AppData{
		DailyGoals:    append([]Goal(nil), d.DailyGoals...),
		Habits:        make([]Habit, len(d.Habits)),
		ActivityLog:   make(map[string]ActivityLogEntry, len(d.ActivityLog)),
		LastResetDate: d.LastResetDate,
		Notified: NotificationLedger{
			Day:    d.Notified.Day,
			Habits: append([]string(nil), d.Notified.Habits...),
			Goals:  d.Notified.Goals,
		},
	}
	for i, h := range d.Habits {
		if h.LastCompleted != nil {
			day := *h.LastCompleted
			h.LastCompleted = &day
		}
		c.Habits[i] = h
	}
	for k, v := range d.ActivityLog {
		c.ActivityLog[k] = v
	}
	c.Normalize()
	return c
}

type UrgeTaskType string

const (
	UrgeExercise UrgeTaskType = "exercise"
	UrgePhysical UrgeTaskType = "physical"
	UrgeMental   UrgeTaskType = "mental"
)

type UrgeTask struct {
	ID   string       `json:"id"`
	Icon string       `json:"icon"`
	Text string       `json:"text"`
	Type UrgeTaskType `json:"type"`
}

// UrgeTasks is the fixed catalog offered by the urge breaker.
var UrgeTasks = []UrgeTask{
	{ID: "1", Icon: "dumbbell", Text: "Do 20 push-ups", Type: UrgeExercise},
	{ID: "2", Icon: "snowflake", Text: "Take a cold shower", Type: UrgePhysical},
	{ID: "3", Icon: "headphones", Text: "Listen to a podcast", Type: UrgeMental},
	{ID: "4", Icon: "tree-pine", Text: "Go for a quick walk", Type: UrgeExercise},
	{ID: "5", Icon: "book", Text: "Read for 10 minutes", Type: UrgeMental},
	{ID: "6", Icon: "music", Text: "Listen to motivational music", Type: UrgeMental},
}

// FindUrgeTask looks up a catalog entry by id.
func FindUrgeTask(id string) (UrgeTask, bool) {
	for _, t := range UrgeTasks {
		if t.ID == id {
			return t, true
		}
	}
	return UrgeTask{}, false
}

type CreateGoalRequest struct {
	Text string `json:"text"`
}

type CreateHabitRequest struct {
	Name       string `json:"name"`
	DaysToFail int    `json:"daysToFail,omitempty"`
}
