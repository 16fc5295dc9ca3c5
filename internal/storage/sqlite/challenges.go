package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/savieapp/savie/internal/models"
	"github.com/savieapp/savie/internal/storage"
)

const challengeColumns = "id, user_id, challenge_type, target_category, start_date, end_date, status"

// CreateChallenge cancels any active challenge for the user and inserts the
// new one in the same transaction, preserving the at-most-one-active
// invariant.
func (s *SQLiteStore) CreateChallenge(ctx context.Context, challenge *models.Challenge) error {
	if challenge.ID == "" {
		challenge.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE challenges SET status = ? WHERE user_id = ? AND status = ?",
		models.ChallengeCancelled, challenge.UserID, models.ChallengeActive,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel active challenges: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO challenges (id, user_id, challenge_type, target_category, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		challenge.ID,
		challenge.UserID,
		challenge.Type,
		challenge.TargetCategory,
		formatDate(challenge.StartDate),
		formatDate(challenge.EndDate),
		challenge.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ActiveChallenge fetches the user's active challenge for a category whose
// end date is on or after today. Returns nil, nil when absent.
func (s *SQLiteStore) ActiveChallenge(ctx context.Context, userID int64, category string, today time.Time) (*models.Challenge, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM challenges
		WHERE user_id = ? AND challenge_type = ? AND target_category = ? AND status = ? AND end_date >= ?
		LIMIT 1
	`, userID, models.ChallengeNoSpend, category, models.ChallengeActive, formatDate(today))

	challenge, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active challenge: %w", err)
	}
	return challenge, nil
}

// ActiveChallenges lists the user's active challenges.
func (s *SQLiteStore) ActiveChallenges(ctx context.Context, userID int64) ([]models.Challenge, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+challengeColumns+" FROM challenges WHERE user_id = ? AND status = ?",
		userID, models.ChallengeActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active challenges: %w", err)
	}
	defer rows.Close()

	return collectChallenges(rows)
}

// UpdateChallengeStatus transitions one challenge.
func (s *SQLiteStore) UpdateChallengeStatus(ctx context.Context, id string, status models.ChallengeStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE challenges SET status = ? WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("challenge %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// CompleteExpiredChallenges batch-completes active challenges that ended
// before the given day and returns them. Challenges already failed or
// cancelled are never touched.
func (s *SQLiteStore) CompleteExpiredChallenges(ctx context.Context, before time.Time) ([]models.Challenge, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT "+challengeColumns+" FROM challenges WHERE status = ? AND end_date < ?",
		models.ChallengeActive, formatDate(before),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to select expired challenges: %w", err)
	}
	expired, err := collectChallenges(rows)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]any, len(expired))
	placeholders := make([]string, len(expired))
	for i, ch := range expired {
		ids[i] = ch.ID
		placeholders[i] = "?"
	}
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE challenges SET status = '%s' WHERE id IN (%s)",
			models.ChallengeCompleted, strings.Join(placeholders, ",")),
		ids...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete challenges: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i := range expired {
		expired[i].Status = models.ChallengeCompleted
	}
	return expired, nil
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	challenge := &models.Challenge{}
	var start, end string
	if err := row.Scan(
		&challenge.ID,
		&challenge.UserID,
		&challenge.Type,
		&challenge.TargetCategory,
		&start,
		&end,
		&challenge.Status,
	); err != nil {
		return nil, err
	}

	var err error
	if challenge.StartDate, err = parseStoredDate(start); err != nil {
		return nil, err
	}
	if challenge.EndDate, err = parseStoredDate(end); err != nil {
		return nil, err
	}
	return challenge, nil
}

func collectChallenges(rows *sql.Rows) ([]models.Challenge, error) {
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, *challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}
	return challenges, nil
}
