package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"github.com/bfitapp/server/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the interface for account operations required by the
// HTTP handlers.
type AuthService interface {
	// Register creates a new user and its zero-valued streak.
	Register(ctx context.Context, in service.RegisterInput) (*models.User, *models.Streak, error)
	// Authenticate verifies a phone/password pair and loads the user's streak.
	Authenticate(ctx context.Context, phone, password string) (*models.User, *models.Streak, error)
	// ResetPassword replaces the password of the user with the given phone.
	ResetPassword(ctx context.Context, phone, newPassword string) error
}

// AuthHandler handles HTTP requests for registration, login and password
// reset.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
	// Logger receives unexpected-error reports.
	Logger *zap.Logger
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Age      *int   `json:"age"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ResetPasswordRequest represents the JSON payload for password reset.
type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	NewPassword string `json:"newPassword"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	UserID  string        `json:"userId"`
	User    userPayload   `json:"user"`
	Streak  streakPayload `json:"streak"`
}

// Register handles POST /api/register. It validates and creates the user,
// provisions its streak and responds with both.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}

	user, streak, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Gender:   req.Gender,
		Age:      req.Age,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.ID,
		User:    toUserPayload(user),
		Streak:  toStreakPayload(streak),
	})
}

// Login handles POST /api/login. Unknown phone and wrong password produce an
// identical 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}

	user, streak, err := h.AuthService.Authenticate(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		UserID:  user.ID,
		User:    toUserPayload(user),
		Streak:  toStreakPayload(streak),
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", apperr.ErrValidation))
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Phone, req.NewPassword); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
