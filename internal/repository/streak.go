package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bfitapp/server/internal/models"
)

// PostgresStreakRepository implements streak persistence against a PostgreSQL
// database.
type PostgresStreakRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresStreakRepository creates a new PostgresStreakRepository with the
// given database connection.
func NewPostgresStreakRepository(db *sql.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{DB: db}
}

// Get returns the stored streak for the user, or nil when none exists.
// Absence is not an error; the caller decides what a missing row means.
func (r *PostgresStreakRepository) Get(ctx context.Context, userID string) (*models.Streak, error) {
	s := &models.Streak{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, current_streak, highest_streak, workout_count,
		       last_workout_date, created_at, updated_at
		FROM streaks WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.CurrentStreak, &s.HighestStreak,
		&s.WorkoutCount, &s.LastWorkoutDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("select streak", err)
	}
	return s, nil
}

// Save inserts or replaces the streak keyed by its UserID, refreshing
// updated_at.
func (r *PostgresStreakRepository) Save(ctx context.Context, s *models.Streak) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, highest_streak, workout_count, last_workout_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			highest_streak = EXCLUDED.highest_streak,
			workout_count = EXCLUDED.workout_count,
			last_workout_date = EXCLUDED.last_workout_date,
			updated_at = now()
	`, s.UserID, s.CurrentStreak, s.HighestStreak, s.WorkoutCount, s.LastWorkoutDate)
	if err != nil {
		return storageErr("upsert streak", err)
	}
	return nil
}
