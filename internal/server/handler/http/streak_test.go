package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// fakeStreakService implements StreakService for testing.
type fakeStreakService struct {
	streak       *models.Streak
	alreadyToday bool
	err          error

	gotUserID     string
	gotClientTime *time.Time
	gotCurrent    int
	gotHighest    int
}

func (f *fakeStreakService) RecordWorkout(ctx context.Context, userID string, clientTime *time.Time) (*models.Streak, bool, error) {
	f.gotUserID = userID
	f.gotClientTime = clientTime
	return f.streak, f.alreadyToday, f.err
}

func (f *fakeStreakService) GetStreak(ctx context.Context, userID string) (*models.Streak, error) {
	f.gotUserID = userID
	return f.streak, f.err
}

func (f *fakeStreakService) Sync(ctx context.Context, userID string, reportedCurrent, reportedHighest int, reportedLast *time.Time) (*models.Streak, error) {
	f.gotUserID = userID
	f.gotCurrent = reportedCurrent
	f.gotHighest = reportedHighest
	return f.streak, f.err
}

func TestStreakHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeStreakService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `nope`,
			service:        &fakeStreakService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request body",
		},
		{
			name:           "missing userId",
			body:           `{}`,
			service:        &fakeStreakService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "user id is required",
		},
		{
			name:           "unknown user",
			body:           `{"userId":"ghost"}`,
			service:        &fakeStreakService{err: apperr.ErrNotFound},
			expectedCode:   http.StatusNotFound,
			expectedSubstr: "user not found",
		},
		{
			name:           "storage unavailable",
			body:           `{"userId":"u1"}`,
			service:        &fakeStreakService{err: apperr.ErrStorageUnavailable},
			expectedCode:   http.StatusServiceUnavailable,
			expectedSubstr: "storage unavailable",
		},
		{
			name: "updated",
			body: `{"userId":"u1"}`,
			service: &fakeStreakService{
				streak: &models.Streak{UserID: "u1", CurrentStreak: 4, HighestStreak: 5, WorkoutCount: 13},
			},
			expectedCode:   http.StatusOK,
			expectedSubstr: "Streak updated successfully",
		},
		{
			name: "already recorded today",
			body: `{"userId":"u1"}`,
			service: &fakeStreakService{
				streak:       &models.Streak{UserID: "u1", CurrentStreak: 4, HighestStreak: 5, WorkoutCount: 13},
				alreadyToday: true,
			},
			expectedCode:   http.StatusOK,
			expectedSubstr: "Already worked out today",
		},
		{
			name:           "unexpected error is generic",
			body:           `{"userId":"u1"}`,
			service:        &fakeStreakService{err: errors.New("pq: cached plan must not change result type")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/streak/update", bytes.NewBufferString(tt.body))
			h := &StreakHandler{StreakService: tt.service, Logger: zap.NewNop()}
			h.Update(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !bytes.Contains(rec.Body.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestStreakHandler_Update_InternalDetailNotLeaked(t *testing.T) {
	h := &StreakHandler{
		StreakService: &fakeStreakService{err: errors.New("pq: something internal")},
		Logger:        zap.NewNop(),
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/streak/update", bytes.NewBufferString(`{"userId":"u1"}`))
	h.Update(rec, req)

	if bytes.Contains(rec.Body.Bytes(), []byte("pq:")) {
		t.Errorf("internal error detail leaked: %q", rec.Body.String())
	}
}

func serveGet(h *StreakHandler, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/streak/{userID}", h.Get)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", target, nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestStreakHandler_Get_MalformedID(t *testing.T) {
	h := &StreakHandler{StreakService: &fakeStreakService{}, Logger: zap.NewNop()}

	rec := serveGet(h, "/api/streak/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("malformed user id")) {
		t.Errorf("expected malformed id error, got %q", rec.Body.String())
	}
}

func TestStreakHandler_Get_ZeroValued(t *testing.T) {
	svc := &fakeStreakService{streak: &models.Streak{UserID: "2f0c9f1e-9a33-4a57-9f3c-6a1f6f3f0a10"}}
	h := &StreakHandler{StreakService: svc, Logger: zap.NewNop()}

	rec := serveGet(h, "/api/streak/2f0c9f1e-9a33-4a57-9f3c-6a1f6f3f0a10")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Success bool `json:"success"`
		Streak  struct {
			CurrentStreak   int     `json:"currentStreak"`
			HighestStreak   int     `json:"highestStreak"`
			WorkoutCount    int     `json:"workoutCount"`
			LastWorkoutDate *string `json:"lastWorkoutDate"`
		} `json:"streak"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !payload.Success {
		t.Error("expected success")
	}
	if payload.Streak.CurrentStreak != 0 || payload.Streak.WorkoutCount != 0 {
		t.Errorf("expected zero-valued streak, got %+v", payload.Streak)
	}
	if payload.Streak.LastWorkoutDate != nil {
		t.Errorf("expected null lastWorkoutDate, got %v", *payload.Streak.LastWorkoutDate)
	}
	if svc.gotUserID != "2f0c9f1e-9a33-4a57-9f3c-6a1f6f3f0a10" {
		t.Errorf("service called with %q", svc.gotUserID)
	}
}

func TestStreakHandler_Sync(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeStreakService
		expectedCode int
	}{
		{
			name:         "missing userId",
			body:         `{"currentStreak":3}`,
			service:      &fakeStreakService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown user",
			body:         `{"userId":"ghost","currentStreak":3}`,
			service:      &fakeStreakService{err: apperr.ErrNotFound},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "success",
			body: `{"userId":"u1","currentStreak":3,"highestStreak":6}`,
			service: &fakeStreakService{
				streak: &models.Streak{UserID: "u1", CurrentStreak: 3, HighestStreak: 6},
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/streak/sync", bytes.NewBufferString(tt.body))
			h := &StreakHandler{StreakService: tt.service, Logger: zap.NewNop()}
			h.Sync(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
		})
	}
}

func TestStreakHandler_Sync_PassesReportedValues(t *testing.T) {
	svc := &fakeStreakService{streak: &models.Streak{UserID: "u1"}}
	h := &StreakHandler{StreakService: svc, Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/streak/sync",
		bytes.NewBufferString(`{"userId":"u1","currentStreak":7,"highestStreak":9}`))
	h.Sync(rec, req)

	if svc.gotUserID != "u1" || svc.gotCurrent != 7 || svc.gotHighest != 9 {
		t.Errorf("service called with userID=%q current=%d highest=%d",
			svc.gotUserID, svc.gotCurrent, svc.gotHighest)
	}
}
