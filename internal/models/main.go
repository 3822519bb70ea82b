// Package models defines the core data structures for users and workout streaks.
package models

import "time"

// Gender is the closed set of accepted gender values.
type Gender string

const (
	// GenderMale represents the "male" gender value.
	GenderMale Gender = "male"
	// GenderFemale represents the "female" gender value.
	GenderFemale Gender = "female"
	// GenderOther represents the "other" gender value.
	GenderOther Gender = "other"
)

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents a registered account, identified by a normalized phone number.
type User struct {
	// ID is the unique identifier for the user, assigned at creation.
	ID string
	// Name is the display name of the user.
	Name string
	// Phone is the user's phone number, normalized to exactly 10 digits.
	Phone string
	// PasswordHash is the bcrypt hash of the user's password. It is never
	// serialized into any response.
	PasswordHash []byte
	// Gender is one of the accepted Gender values.
	Gender Gender
	// Age is the optional age of the user, 12-100 when present.
	Age *int
	// CreatedAt is the registration timestamp.
	CreatedAt time.Time
}

// Streak tracks consecutive workout days for one user. At most one Streak
// exists per user.
type Streak struct {
	// UserID references the owning user.
	UserID string
	// CurrentStreak is the consecutive-day counter.
	CurrentStreak int
	// HighestStreak is the historical maximum of CurrentStreak. It never
	// decreases and is always >= CurrentStreak.
	HighestStreak int
	// WorkoutCount is the lifetime number of distinct workout days.
	WorkoutCount int
	// LastWorkoutDate is the most recent recorded workout, nil until the
	// first one.
	LastWorkoutDate *time.Time
	// CreatedAt is the row creation timestamp.
	CreatedAt time.Time
	// UpdatedAt is the last modification timestamp.
	UpdatedAt time.Time
}
