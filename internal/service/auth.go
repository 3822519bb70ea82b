// Package service provides the business logic for accounts and workout
// streaks, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	phoneDigits = 10
	minAge      = 12
	maxAge      = 100
)

// UserRepository defines the persistence operations required by AuthService.
type UserRepository interface {
	// Create persists a new user and its zero-valued streak atomically.
	// Returns apperr.ErrDuplicatePhone when the phone is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByPhone fetches a user by normalized phone, apperr.ErrNotFound when
	// absent.
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

// RegisterInput carries the fields accepted by Register, before validation
// and phone normalization.
type RegisterInput struct {
	Name     string
	Phone    string
	Password string
	Gender   string
	Age      *int
}

// AuthService implements registration, login and password reset.
type AuthService struct {
	users   UserRepository
	streaks StreakRepository
}

// NewAuthService constructs an AuthService using the provided repositories.
func NewAuthService(users UserRepository, streaks StreakRepository) *AuthService {
	return &AuthService{users: users, streaks: streaks}
}

// NormalizePhone strips every non-digit character from raw and requires the
// result to be exactly 10 digits.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() != phoneDigits {
		return "", fmt.Errorf("%w: phone must contain exactly %d digits", apperr.ErrValidation, phoneDigits)
	}
	return b.String(), nil
}

// Register validates the input, hashes the password and persists the new user
// together with its zero-valued streak. The plaintext password is never
// stored or logged.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Streak, error) {
	if in.Name == "" || in.Phone == "" || in.Password == "" || in.Gender == "" {
		return nil, nil, fmt.Errorf("%w: name, phone, password and gender are required", apperr.ErrValidation)
	}
	gender := models.Gender(in.Gender)
	if !gender.Valid() {
		return nil, nil, fmt.Errorf("%w: gender must be male, female or other", apperr.ErrValidation)
	}
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, nil, err
	}
	if in.Age != nil && (*in.Age < minAge || *in.Age > maxAge) {
		return nil, nil, fmt.Errorf("%w: age must be between %d and %d", apperr.ErrValidation, minAge, maxAge)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         in.Name,
		Phone:        phone,
		PasswordHash: hash,
		Gender:       gender,
		Age:          in.Age,
	})
	if err != nil {
		return nil, nil, err
	}

	return user, &models.Streak{UserID: user.ID}, nil
}

// Authenticate verifies the phone/password pair and returns the user with its
// current streak. An unknown phone and a wrong password both yield
// apperr.ErrAuthFailure so a caller cannot probe which phones are registered.
func (s *AuthService) Authenticate(ctx context.Context, phone, password string) (*models.User, *models.Streak, error) {
	if phone == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: phone and password are required", apperr.ErrValidation)
	}

	normalized, err := NormalizePhone(phone)
	if err != nil {
		// A malformed phone cannot match any account.
		return nil, nil, apperr.ErrAuthFailure
	}

	user, err := s.users.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, apperr.ErrAuthFailure
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, nil, apperr.ErrAuthFailure
	}

	streak, err := s.streaks.Get(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if streak == nil {
		streak = &models.Streak{UserID: user.ID}
	}
	return user, streak, nil
}

// ResetPassword replaces the password hash of the user with the given phone.
// Returns apperr.ErrNotFound when no such user exists. No old-password check
// is performed; the operation trusts its caller.
func (s *AuthService) ResetPassword(ctx context.Context, phone, newPassword string) error {
	if phone == "" || newPassword == "" {
		return fmt.Errorf("%w: phone and new password are required", apperr.ErrValidation)
	}

	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	user, err := s.users.GetByPhone(ctx, normalized)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}
