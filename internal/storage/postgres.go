package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/facewell/internal/config"
	"github.com/your-org/facewell/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Users ---

// UpsertGoogleUser creates or refreshes a user row keyed by the Google
// subject claim.
func (s *PostgresStore) UpsertGoogleUser(ctx context.Context, sub, email, name, picture string) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, google_sub, email, name, picture)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (google_sub) DO UPDATE SET email = $3, name = $4, picture = $5, updated_at = now()
		 RETURNING id, google_sub, email, name, picture, total_photos, current_streak, longest_streak, last_photo_date, created_at, updated_at`,
		uuid.New(), sub, email, name, picture,
	).Scan(&u.ID, &u.GoogleSub, &u.Email, &u.Name, &u.Picture,
		&u.TotalPhotos, &u.CurrentStreak, &u.LongestStreak, &u.LastPhotoDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, google_sub, email, name, picture, total_photos, current_streak, longest_streak, last_photo_date, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.GoogleSub, &u.Email, &u.Name, &u.Picture,
		&u.TotalPhotos, &u.CurrentStreak, &u.LongestStreak, &u.LastPhotoDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// RecordPhoto bumps the user's photo counter and daily streak for a photo
// taken on the given day. Same-day repeats count the photo but leave the
// streak untouched.
func (s *PostgresStore) RecordPhoto(ctx context.Context, userID uuid.UUID, takenAt time.Time) (*models.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	day := takenAt.Truncate(24 * time.Hour)
	last := u.LastPhotoDate.Truncate(24 * time.Hour)

	u.TotalPhotos++
	switch {
	case last.Equal(day):
		// Second photo today; streak unchanged.
	case last.Equal(day.AddDate(0, 0, -1)):
		u.CurrentStreak++
	default:
		u.CurrentStreak = 1
	}
	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	u.LastPhotoDate = day

	_, err = s.pool.Exec(ctx,
		`UPDATE users SET total_photos = $1, current_streak = $2, longest_streak = $3, last_photo_date = $4, updated_at = now()
		 WHERE id = $5`,
		u.TotalPhotos, u.CurrentStreak, u.LongestStreak, u.LastPhotoDate, u.ID)
	if err != nil {
		return nil, fmt.Errorf("record photo: %w", err)
	}
	return u, nil
}

// --- Sessions ---

func (s *PostgresStore) CreateSession(ctx context.Context, sess *models.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		sess.Token, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	sess := &models.Session{}
	err := s.pool.QueryRow(ctx,
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`, token,
	).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// --- Analyses ---

func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	results, err := json.Marshal(a.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	vec := pgvector.NewVector(a.MetricVector())
	err = s.pool.QueryRow(ctx,
		`INSERT INTO analyses (id, user_id, timestamp, photo_key, results, wellness_score, metric_vector)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		a.ID, a.UserID, a.Timestamp, a.PhotoKey, results, a.WellnessScore, vec,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	a := &models.Analysis{}
	var results []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, timestamp, photo_key, results, wellness_score, created_at
		 FROM analyses WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Timestamp, &a.PhotoKey, &results, &a.WellnessScore, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	if err := json.Unmarshal(results, &a.Results); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return a, nil
}

// ListAnalyses returns the user's analyses, newest first.
func (s *PostgresStore) ListAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]models.Analysis, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, timestamp, photo_key, results, wellness_score, created_at
		 FROM analyses WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var a models.Analysis
		var results []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Timestamp, &a.PhotoKey, &results, &a.WellnessScore, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal(results, &a.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}

// LatestAnalysis returns the user's most recent analysis, or nil.
func (s *PostgresStore) LatestAnalysis(ctx context.Context, userID uuid.UUID) (*models.Analysis, error) {
	analyses, err := s.ListAnalyses(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, nil
	}
	return &analyses[0], nil
}

// MetricAverages computes per-metric mean values over the user's most
// recent analyses, for the metrics the insights view displays.
func (s *PostgresStore) MetricAverages(ctx context.Context, userID uuid.UUID, lastN int) (map[string]float64, error) {
	if lastN <= 0 {
		lastN = 30
	}
	rows, err := s.pool.Query(ctx,
		`SELECT results FROM analyses WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		userID, lastN)
	if err != nil {
		return nil, fmt.Errorf("metric averages: %w", err)
	}
	defer rows.Close()

	sums := map[string]float64{}
	count := 0
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan results: %w", err)
		}
		var result models.AnalysisResult
		if err := json.Unmarshal(raw, &result); err != nil {
			continue
		}
		count++
		for _, name := range []string{models.MetricEyePouch, models.MetricDarkCircle, models.MetricSkinAge} {
			sums[name] += float64(result.Value(name))
		}
	}
	if count == 0 {
		return nil, nil
	}

	avgs := make(map[string]float64, len(sums))
	for name, sum := range sums {
		avgs[name] = sum / float64(count)
	}
	return avgs, nil
}

// SimilarMatch is one result of a metric-vector similarity search.
type SimilarMatch struct {
	AnalysisID    uuid.UUID `json:"analysis_id"`
	Timestamp     time.Time `json:"timestamp"`
	WellnessScore int       `json:"wellness_score"`
	Score         float32   `json:"score"`
}

// SimilarAnalyses finds the user's past analyses whose metric vectors are
// closest to the given one, by cosine distance, excluding the source row.
func (s *PostgresStore) SimilarAnalyses(ctx context.Context, userID uuid.UUID, vector []float32, excludeID uuid.UUID, limit int) ([]SimilarMatch, error) {
	if limit <= 0 {
		limit = 5
	}
	vec := pgvector.NewVector(vector)

	rows, err := s.pool.Query(ctx,
		`SELECT id, timestamp, wellness_score, 1 - (metric_vector <=> $1) AS score
		 FROM analyses
		 WHERE user_id = $2 AND id != $3
		 ORDER BY metric_vector <=> $1
		 LIMIT $4`,
		vec, userID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("similar analyses: %w", err)
	}
	defer rows.Close()

	var matches []SimilarMatch
	for rows.Next() {
		var m SimilarMatch
		if err := rows.Scan(&m.AnalysisID, &m.Timestamp, &m.WellnessScore, &m.Score); err != nil {
			return nil, fmt.Errorf("scan similar match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// --- Habit logs ---

// UpsertHabitLog saves the user's habit log for a day, overwriting any
// earlier save for the same day.
func (s *PostgresStore) UpsertHabitLog(ctx context.Context, h *models.HabitLog) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.Date = h.Date.Truncate(24 * time.Hour)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO habit_logs (id, user_id, date, sleep_hours, water_glasses, exercise_minutes, screen_time_hours, stress_level, mood, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   sleep_hours = $4, water_glasses = $5, exercise_minutes = $6,
		   screen_time_hours = $7, stress_level = $8, mood = $9, notes = $10, updated_at = now()
		 RETURNING id, created_at, updated_at`,
		h.ID, h.UserID, h.Date, h.SleepHours, h.WaterGlasses, h.ExerciseMinutes,
		h.ScreenTimeHours, h.StressLevel, h.Mood, h.Notes,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert habit log: %w", err)
	}
	return nil
}

// GetHabitLog returns the user's habit log for a day, or nil.
func (s *PostgresStore) GetHabitLog(ctx context.Context, userID uuid.UUID, day time.Time) (*models.HabitLog, error) {
	h := &models.HabitLog{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, date, sleep_hours, water_glasses, exercise_minutes, screen_time_hours, stress_level, mood, notes, created_at, updated_at
		 FROM habit_logs WHERE user_id = $1 AND date = $2`,
		userID, day.Truncate(24*time.Hour),
	).Scan(&h.ID, &h.UserID, &h.Date, &h.SleepHours, &h.WaterGlasses, &h.ExerciseMinutes,
		&h.ScreenTimeHours, &h.StressLevel, &h.Mood, &h.Notes, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get habit log: %w", err)
	}
	return h, nil
}
