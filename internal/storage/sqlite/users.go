package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/savieapp/savie/internal/models"
)

// UpsertUser creates the user on first contact; later contacts refresh the
// handle and display name without touching the registration fields.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name
	`, user.ID, user.Username, user.FirstName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id. Returns nil, nil when absent.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByUsername retrieves a user by platform handle.
// Returns nil, nil when absent.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username = ?", username)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, username, first_name, full_name, email, created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var fullName, email sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&fullName,
		&email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.FullName = nullableString(fullName)
	user.Email = nullableString(email)
	return user, nil
}

// UpdateProfile completes a user's registration.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, id int64, fullName, email string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET full_name = ?, email = ? WHERE id = ?",
		fullName, email, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update profile for user %d: no such user", id)
	}
	return nil
}

// RegisteredUsers lists users with a completed profile, oldest first.
func (s *SQLiteStore) RegisteredUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, first_name, full_name, email, created_at
		FROM users
		WHERE full_name IS NOT NULL AND email IS NOT NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var fullName, email sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.FirstName, &fullName, &email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.FullName = nullableString(fullName)
		user.Email = nullableString(email)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
