package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"github.com/lib/pq"
)

func setupStreakMock(t *testing.T) (*PostgresStreakRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresStreakRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestStreakGet_Found(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	last := time.Now().Add(-24 * time.Hour)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"user_id", "current_streak", "highest_streak", "workout_count",
		"last_workout_date", "created_at", "updated_at",
	}).AddRow("u1", 3, 5, 12, last, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, current_streak, highest_streak, workout_count`)).
		WithArgs("u1").
		WillReturnRows(rows)

	streak, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak == nil {
		t.Fatal("expected streak, got nil")
	}
	if streak.CurrentStreak != 3 || streak.HighestStreak != 5 || streak.WorkoutCount != 12 {
		t.Errorf("unexpected streak: %+v", streak)
	}
	if streak.LastWorkoutDate == nil || !streak.LastWorkoutDate.Equal(last) {
		t.Errorf("expected last workout date %v, got %v", last, streak.LastWorkoutDate)
	}
}

func TestStreakGet_NullLastWorkoutDate(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"user_id", "current_streak", "highest_streak", "workout_count",
		"last_workout_date", "created_at", "updated_at",
	}).AddRow("u1", 0, 0, 0, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, current_streak, highest_streak, workout_count`)).
		WithArgs("u1").
		WillReturnRows(rows)

	streak, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak.LastWorkoutDate != nil {
		t.Errorf("expected nil last workout date, got %v", streak.LastWorkoutDate)
	}
}

func TestStreakGet_Missing(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, current_streak, highest_streak, workout_count`)).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "current_streak", "highest_streak", "workout_count",
			"last_workout_date", "created_at", "updated_at",
		}))

	streak, err := repo.Get(context.Background(), "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != nil {
		t.Errorf("expected nil streak for missing row, got %+v", streak)
	}
}

func TestStreakSave_Upsert(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	last := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO streaks (user_id, current_streak, highest_streak, workout_count, last_workout_date)`)).
		WithArgs("u1", 4, 5, 13, last).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &models.Streak{
		UserID:          "u1",
		CurrentStreak:   4,
		HighestStreak:   5,
		WorkoutCount:    13,
		LastWorkoutDate: &last,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStreakSave_ConnectionFailure(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO streaks`)).
		WillReturnError(&pq.Error{Code: "08006"})

	err := repo.Save(context.Background(), &models.Streak{UserID: "u1"})
	if !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestStreakGet_QueryError(t *testing.T) {
	repo, mock, cleanup := setupStreakMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id`)).
		WithArgs("u1").
		WillReturnError(errors.New("query failed"))

	_, err := repo.Get(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
