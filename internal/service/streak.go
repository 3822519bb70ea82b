package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
)

// StreakRepository defines the persistence operations required by
// StreakService.
type StreakRepository interface {
	// Get returns the stored streak for the user, or nil when none exists.
	Get(ctx context.Context, userID string) (*models.Streak, error)
	// Save inserts or replaces the streak keyed by its UserID.
	Save(ctx context.Context, streak *models.Streak) error
}

// UserChecker reports whether a user ID refers to a registered user.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// StreakService implements the consecutive-calendar-day workout counter.
type StreakService struct {
	streaks StreakRepository
	users   UserChecker

	// now supplies the reference clock for day-boundary comparisons.
	now func() time.Time

	// locks serializes RecordWorkout and Sync per user, so the
	// read-modify-write on a single streak row never interleaves.
	locks sync.Map // userID -> *sync.Mutex
}

// NewStreakService constructs a StreakService using the provided repositories
// and the system clock.
func NewStreakService(streaks StreakRepository, users UserChecker) *StreakService {
	return &StreakService{streaks: streaks, users: users, now: time.Now}
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *StreakService) userLock(userID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// RecordWorkout applies one workout event to the user's streak. The returned
// bool reports whether a workout had already been recorded for the current
// calendar day, in which case the stored values are returned unchanged.
//
// The transition over the stored last workout day relative to "today":
//
//	no row / no date yet  -> current = 1
//	same day as today     -> no-op, counters untouched
//	yesterday             -> current += 1
//	older                 -> current = 1 (streak broken)
//
// Every non-duplicate call bumps WorkoutCount by one, refreshes
// LastWorkoutDate and raises HighestStreak when current exceeds it.
func (s *StreakService) RecordWorkout(ctx context.Context, userID string, clientTime *time.Time) (*models.Streak, bool, error) {
	if userID == "" {
		return nil, false, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, apperr.ErrNotFound
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	now := s.now()
	today := startOfDay(now)

	// The server clock decides the calendar day. A client-reported time is
	// stored only when it falls on that same day, so a device with a skewed
	// clock cannot poison the day-boundary comparison of later calls.
	recordedAt := now
	if clientTime != nil && !clientTime.After(now) && startOfDay(*clientTime).Equal(today) {
		recordedAt = *clientTime
	}

	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if streak == nil {
		// Registration should have provisioned the row; recover here.
		streak = &models.Streak{UserID: userID}
	}

	if streak.LastWorkoutDate != nil {
		switch last := startOfDay(*streak.LastWorkoutDate); {
		case last.Equal(today):
			return streak, true, nil
		case last.Equal(today.AddDate(0, 0, -1)):
			streak.CurrentStreak++
		default:
			streak.CurrentStreak = 1
		}
	} else {
		streak.CurrentStreak = 1
	}

	if streak.CurrentStreak > streak.HighestStreak {
		streak.HighestStreak = streak.CurrentStreak
	}
	streak.WorkoutCount++
	streak.LastWorkoutDate = &recordedAt

	if err := s.streaks.Save(ctx, streak); err != nil {
		return nil, false, err
	}
	return streak, false, nil
}

// GetStreak returns the user's streak, or a zero-valued one when none has
// been stored. Absence is a representable state, never an error.
func (s *StreakService) GetStreak(ctx context.Context, userID string) (*models.Streak, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		streak = &models.Streak{UserID: userID}
	}
	return streak, nil
}

// Sync merges a client-tracked streak into the stored one without any
// day-boundary side effects: counters never decrease, LastWorkoutDate moves
// only forward and WorkoutCount is left untouched.
func (s *StreakService) Sync(ctx context.Context, userID string, reportedCurrent, reportedHighest int, reportedLast *time.Time) (*models.Streak, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrNotFound
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		streak = &models.Streak{UserID: userID}
	}

	if reportedCurrent > streak.CurrentStreak {
		streak.CurrentStreak = reportedCurrent
	}
	if reportedHighest > streak.HighestStreak {
		streak.HighestStreak = reportedHighest
	}
	// HighestStreak >= CurrentStreak must survive the merge.
	if streak.CurrentStreak > streak.HighestStreak {
		streak.HighestStreak = streak.CurrentStreak
	}
	if reportedLast != nil &&
		(streak.LastWorkoutDate == nil || reportedLast.After(*streak.LastWorkoutDate)) {
		streak.LastWorkoutDate = reportedLast
	}

	if err := s.streaks.Save(ctx, streak); err != nil {
		return nil, err
	}
	return streak, nil
}
