package dto

import "github.com/your-org/facewell/internal/models"

// GoogleAuthRequest is the body of POST /api/auth/google.
type GoogleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// AuthResponse returns the minted session token and the signed-in user.
type AuthResponse struct {
	SessionToken string       `json:"session_token"`
	User         *models.User `json:"user"`
}

// ProfileResponse wraps the current user for GET /api/user/profile.
type ProfileResponse struct {
	User *models.User `json:"user"`
}

// HabitLogRequest is the body of POST /api/habits/log. Date defaults to
// today when omitted.
type HabitLogRequest struct {
	Date            string  `json:"date,omitempty"` // YYYY-MM-DD
	SleepHours      float64 `json:"sleep_hours"`
	WaterGlasses    int     `json:"water_glasses"`
	ExerciseMinutes int     `json:"exercise_minutes"`
	ScreenTimeHours float64 `json:"screen_time_hours"`
	StressLevel     int     `json:"stress_level" binding:"omitempty,min=1,max=10"`
	Mood            string  `json:"mood" binding:"omitempty,oneof=great good okay low bad"`
	Notes           string  `json:"notes,omitempty"`
}
