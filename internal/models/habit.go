package models

import (
	"time"

	"github.com/google/uuid"
)

type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodLow   Mood = "low"
	MoodBad   Mood = "bad"
)

// HabitLog is a user's self-report for one calendar day. At most one row per
// user and day; a later save for the same day overwrites the earlier one.
type HabitLog struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Date            time.Time `json:"date" db:"date"`
	SleepHours      float64   `json:"sleep_hours" db:"sleep_hours"`
	WaterGlasses    int       `json:"water_glasses" db:"water_glasses"`
	ExerciseMinutes int       `json:"exercise_minutes" db:"exercise_minutes"`
	ScreenTimeHours float64   `json:"screen_time_hours" db:"screen_time_hours"`
	StressLevel     int       `json:"stress_level" db:"stress_level"` // 1-10
	Mood            Mood      `json:"mood" db:"mood"`
	Notes           string    `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
