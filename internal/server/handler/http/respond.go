// Package http provides the HTTP handlers, payload shapes and routing for the
// fitness streak API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"go.uber.org/zap"
)

// userPayload is the wire form of a user; the password hash never appears.
type userPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Gender string `json:"gender"`
	Age    *int   `json:"age"`
}

// streakPayload is the wire form of a streak. LastWorkoutDate serializes as
// RFC3339 or null.
type streakPayload struct {
	CurrentStreak   int        `json:"currentStreak"`
	HighestStreak   int        `json:"highestStreak"`
	WorkoutCount    int        `json:"workoutCount"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:     u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
		Gender: string(u.Gender),
		Age:    u.Age,
	}
}

func toStreakPayload(s *models.Streak) streakPayload {
	return streakPayload{
		CurrentStreak:   s.CurrentStreak,
		HighestStreak:   s.HighestStreak,
		WorkoutCount:    s.WorkoutCount,
		LastWorkoutDate: s.LastWorkoutDate,
	}
}

// errorBody is the envelope for every failed request.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP status codes and writes the
// error envelope. Unanticipated errors are reported generically and logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var code int
	message := err.Error()

	switch {
	case errors.Is(err, apperr.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, apperr.ErrDuplicatePhone):
		code = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthFailure):
		code = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrStorageUnavailable):
		code = http.StatusServiceUnavailable
		message = apperr.ErrStorageUnavailable.Error()
	default:
		code = http.StatusInternalServerError
		message = "internal error"
		if logger != nil {
			logger.Error("unexpected error", zap.Error(err))
		}
	}

	writeJSON(w, code, errorBody{Success: false, Error: message})
}
