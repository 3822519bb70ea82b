// Package repository provides PostgreSQL persistence for users and streaks.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/bfitapp/server/internal/apperr"
	"github.com/bfitapp/server/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pqUniqueViolation = "23505"

// storageErr wraps err with op context, classifying driver-level connectivity
// failures (bad connections, class 08 connection exceptions) as retryable
// apperr.ErrStorageUnavailable.
func storageErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.Is(err, driver.ErrBadConn) ||
		(errors.As(err, &pqErr) && pqErr.Code.Class() == "08") {
		return fmt.Errorf("%s: %w", op, apperr.ErrStorageUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// PostgresUserRepository implements user persistence against a PostgreSQL
// database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Create inserts the user together with its zero-valued streak row in a single
// transaction. The unique index on users.phone is the authority on duplicates;
// a unique violation is reported as apperr.ErrDuplicatePhone.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	user.ID = uuid.NewString()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, name, phone, password_hash, gender, age)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, user.ID, user.Name, user.Phone, user.PasswordHash, string(user.Gender), user.Age).
		Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrDuplicatePhone
		}
		return nil, storageErr("insert user", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO streaks (user_id) VALUES ($1)`, user.ID,
	); err != nil {
		return nil, storageErr("insert streak", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit", err)
	}
	return user, nil
}

// GetByPhone fetches a user by its normalized phone number.
// Returns apperr.ErrNotFound when no user matches.
func (r *PostgresUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	user := &models.User{}
	var gender string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, phone, password_hash, gender, age, created_at
		FROM users WHERE phone = $1
	`, phone).Scan(&user.ID, &user.Name, &user.Phone, &user.PasswordHash,
		&gender, &user.Age, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, storageErr("select user by phone", err)
	}
	user.Gender = models.Gender(gender)
	return user, nil
}

// Exists reports whether a user with the given ID is registered.
func (r *PostgresUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("select user exists", err)
	}
	return exists, nil
}

// UpdatePassword replaces the password hash of the user with the given ID.
// Returns apperr.ErrNotFound when the user does not exist.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return storageErr("update password", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update password rows affected", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
