package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreakService defines the interface for streak operations required by the
// HTTP handlers.
type StreakService interface {
	// RecordWorkout applies one workout event; the bool reports a same-day
	// duplicate.
	RecordWorkout(ctx context.Context, userID string, clientTime *time.Time) (*models.Streak, bool, error)
	// GetStreak returns the streak, zero-valued when none is stored.
	GetStreak(ctx context.Context, userID string) (*models.Streak, error)
	// Sync merges client-tracked streak state without day-boundary effects.
	Sync(ctx context.Context, userID string, reportedCurrent, reportedHighest int, reportedLast *time.Time) (*models.Streak, error)
}

// StreakHandler handles HTTP requests for recording, reading and syncing
// streaks.
type StreakHandler struct {
	// StreakService performs the underlying streak operations.
	StreakService StreakService
	// Logger receives unexpected-error reports.
	Logger *zap.Logger
}

// UpdateStreakRequest represents the JSON payload for recording a workout.
type UpdateStreakRequest struct {
	UserID string `json:"userId"`
	// WorkoutDate is the optional client-reported workout time.
	WorkoutDate *time.Time `json:"workoutDate"`
}

// SyncStreakRequest represents the JSON payload for merging offline-tracked
// streak state.
type SyncStreakRequest struct {
	UserID          string     `json:"userId"`
	CurrentStreak   int        `json:"currentStreak"`
	HighestStreak   int        `json:"highestStreak"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate"`
}

type streakResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Streak  streakPayload `json:"streak"`
}

// Update handles POST /api/streak/update. A second call within the same
// calendar day leaves the streak untouched and says so in the message.
func (h *StreakHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateStreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}
	if req.UserID == "" {
		writeError(w, h.Logger, fmt.Errorf("%w: user id is required", apperr.ErrValidation))
		return
	}

	streak, alreadyToday, err := h.StreakService.RecordWorkout(r.Context(), req.UserID, req.WorkoutDate)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	message := "Streak updated successfully"
	if alreadyToday {
		message = "Already worked out today"
	}
	writeJSON(w, http.StatusOK, streakResponse{
		Success: true,
		Message: message,
		Streak:  toStreakPayload(streak),
	})
}

// Get handles GET /api/streak/{userID}. A user without a stored streak gets
// the zero-valued one, not an error.
func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := uuid.Parse(userID); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: malformed user id", apperr.ErrValidation))
		return
	}

	streak, err := h.StreakService.GetStreak(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		Success: true,
		Streak:  toStreakPayload(streak),
	})
}

// Sync handles POST /api/streak/sync.
func (h *StreakHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncStreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}
	if req.UserID == "" {
		writeError(w, h.Logger, fmt.Errorf("%w: user id is required", apperr.ErrValidation))
		return
	}

	streak, err := h.StreakService.Sync(r.Context(), req.UserID,
		req.CurrentStreak, req.HighestStreak, req.LastWorkoutDate)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		Success: true,
		Message: "Streak synced successfully",
		Streak:  toStreakPayload(streak),
	})
}
